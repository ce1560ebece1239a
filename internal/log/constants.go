package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeySessionID     = "sessionId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeyRequest       = "request"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyBackendURL    = "backendURL"
	KeyBackendStatus = "backendStatus"
	KeyProductID     = "productId"
	KeyItemIdentity  = "itemIdentity"
	KeyItemQuantity  = "itemQuantity"
	KeyItemCount     = "itemCount"
	KeyCartSubtotal  = "cartSubtotal"
	KeyOrderID       = "orderId"
	KeySyncOutcome   = "syncOutcome"
	KeyStoragePath   = "storagePath"
	KeyPaymentMethod = "paymentMethod"
	KeyEmail         = "email"
	KeySearchQuery   = "searchQuery"
)

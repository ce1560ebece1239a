package http

const (
	KeyHeaderContentType   = "Content-Type"
	KeyHeaderAccept        = "Accept"
	KeyHeaderAuthorization = "Authorization"
	KeyHeaderRequestID     = "X-Request-Id"

	ValueHeaderApplicationJson = "application/json"

	SessionCookieName = "storefront_session"
)

package constants

const (
	AppStorefront     = "storefront"
	AppCartService    = "cart-service"
	AppProductService = "product-service"
	AppPaymentService = "payment-service"
	AppUserService    = "user-service"
)

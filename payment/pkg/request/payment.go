package request

// ProcessPayment carries everything the payment backend needs for one
// payment attempt. Card fields are only consulted for the card method.
type ProcessPayment struct {
	OrderID       string `validate:"required" json:"order_id"`
	PaymentMethod string `validate:"required" json:"payment_method"`
	Country       string `json:"country"`
	CardNumber    string `json:"card_number,omitempty"`
	CardExpiry    string `json:"card_expiry,omitempty"`
	CardCvc       string `json:"card_cvc,omitempty"`
	CardHolder    string `json:"card_holder,omitempty"`
}

package request

// ShippingForm is validated as a unit on every checkout submission. Phone and
// State are optional, everything else is required.
type ShippingForm struct {
	FirstName string `validate:"required,min=2,max=50"  json:"first_name"`
	LastName  string `validate:"required,min=2,max=50"  json:"last_name"`
	Email     string `validate:"required,email"         json:"email"`
	Phone     string `validate:"omitempty,max=32"       json:"phone"`
	Country   string `validate:"required"               json:"country"`
	State     string `validate:"omitempty,max=100"      json:"state"`
	City      string `validate:"required"               json:"city"`
	Address   string `validate:"required,min=5"         json:"address"`
	ZipCode   string `validate:"required,min=3"         json:"zip_code"`
}

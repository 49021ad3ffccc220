package request_models

type CreatePaymentMethodRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	MethodType     string `json:"method_type" binding:"required"`
	Provider       string `json:"provider" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required,min=4,max=23"`
	ExpiryMonth    int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" binding:"required,min=2000"`
	CVV            string `json:"cvv" binding:"required,min=3,max=4"`
	CardholderName string `json:"cardholder_name" binding:"required"`
}

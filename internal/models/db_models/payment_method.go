package db_models

type PaymentMethod struct {
	BaseModel
	UserID      string `gorm:"size:64;index"`
	MethodType  string `gorm:"size:32"`
	Provider    string `gorm:"size:32"`
	Token       string `gorm:"size:64;index"` // one-way hash, never the card number
	LastFour    string `gorm:"size:4"`
	ExpiryMonth int
	ExpiryYear  int
	IsDefault   bool
	IsActive    bool
}

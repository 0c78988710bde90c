package creditcard

import "time"

type CreditCard struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;index"`
	CardNumber     string    `gorm:"column:card_number;not null"`
	CardHolderName string    `gorm:"column:card_holder_name;not null"`
	ExpirationDate string    `gorm:"column:expiration_date;not null"`
	Brand          string    `gorm:"column:brand;not null"`
	Bank           string    `gorm:"column:bank;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	CutOffDate     time.Time `gorm:"column:cut_off_date"`
	PaymentDueDate time.Time `gorm:"column:payment_due_date"`
}

func (CreditCard) TableName() string {
	return "credit_cards"
}

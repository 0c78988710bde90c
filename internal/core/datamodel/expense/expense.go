package expense

import "time"

type Expense struct {
	ID              int64     `gorm:"primaryKey"`
	UserID          int64     `gorm:"column:user_id;not null;index"`
	Date            time.Time `gorm:"column:date;not null;index"`
	Amount          float64   `gorm:"column:amount;not null"`
	Description     string    `gorm:"column:description;size:500;not null"`
	Recurring       bool      `gorm:"column:recurring;not null"`
	CategoryID      *int64    `gorm:"column:category_id"`
	CreditCardID    *int64    `gorm:"column:credit_card_id;index"`
	TransactionType string    `gorm:"column:transaction_type;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

package budget

import "time"

type Budget struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	CategoryID    int64     `gorm:"column:category_id;not null"`
	MonthlyBudget float64   `gorm:"column:monthly_budget;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// CategoryName is filled by joined reads only.
	CategoryName string `gorm:"->;column:category_name;-:migration"`
}

func (Budget) TableName() string {
	return "budgets"
}

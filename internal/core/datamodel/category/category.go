package category

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}

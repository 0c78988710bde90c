package accesslog

import "time"

type AccessLog struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	AccessTime  time.Time `gorm:"column:access_time;not null"`
	Action      string    `gorm:"column:action;not null"`
	FirstAccess bool      `gorm:"column:firstaccess;not null"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}

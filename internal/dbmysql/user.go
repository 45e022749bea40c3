package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

// User rows are owned by the account CRUD surface; the notification core
// only counts them for the scheduled summaries.
type User struct {
	UserID    uint64         `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Name      string         `gorm:"column:name;size:100;not null" json:"name"`
	Email     string         `gorm:"column:email;size:255" json:"email"`
	Role      string         `gorm:"column:role;size:50;default:'user'" json:"role"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

package dbmysql

import "time"

// Collaborator tables queried by the aggregation runs. Their CRUD lives in
// the wider business backend; here they are read-only count sources.

type Client struct {
	ClientID  uint64    `gorm:"primaryKey;column:client_id;autoIncrement" json:"client_id"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

type Budget struct {
	BudgetID  uint64    `gorm:"primaryKey;column:budget_id;autoIncrement" json:"budget_id"`
	ClientID  uint64    `gorm:"column:client_id;index;not null" json:"client_id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Status    string    `gorm:"column:status;size:20;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

type LoginRecord struct {
	LoginID uint64    `gorm:"primaryKey;column:login_id;autoIncrement" json:"login_id"`
	UserID  uint64    `gorm:"column:user_id;index;not null" json:"user_id"`
	LoginAt time.Time `gorm:"column:login_at;autoCreateTime;index" json:"login_at"`
}

package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint      `gorm:"index;not null"              json:"user_id"`
	Title       string    `gorm:"not null"                    json:"title"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null;default:pending"    json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

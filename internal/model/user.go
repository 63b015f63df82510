package model

import "time"

// User roles, ordered by privilege. A regular user may only manage tasks they
// created themselves; caretakers and above may manage any task.
const (
	RoleUser      = 1
	RoleCaretaker = 2
	RoleDoctor    = 3
	RoleAdmin     = 4
)

// User stores account and notification metadata.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	UUID         string `gorm:"uniqueIndex;size:36"`
	Username     string `gorm:"uniqueIndex"`
	Email        string `gorm:"uniqueIndex"`
	DisplayName  string
	PasswordHash string
	Role         int    `gorm:"default:1"`
	FCMToken     string // empty means the user cannot receive push reminders
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanModifyTask reports whether the user may mutate a task created by sender.
func (u User) CanModifyTask(senderUUID string) bool {
	if u.Role >= RoleCaretaker {
		return true
	}
	return u.UUID == senderUUID
}

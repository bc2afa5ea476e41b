package models

import "time"

// User represents an account of the store.
type User struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" bson:"password" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Sanitized returns a copy of the user without the password hash.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

package models

import "time"

// UserStatus is the lifecycle state stamped on a user response.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusValidated UserStatus = "VALIDATED"
)

// UserRequest is the body accepted by the user endpoints.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// UserResponse is the derived, possibly persisted, user returned to callers.
type UserResponse struct {
	ID        *int64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// User is the row stored in the users table.
// Email is nullable so that users registered without one never collide on the unique index.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     *string   `gorm:"uniqueIndex;type:varchar(255)"`
	Age       int       `gorm:"not null"`
	Status    string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

// TableName pins the table name used by GORM.
func (User) TableName() string {
	return "users"
}

// FromResponse fills the row from a response entity.
func (u *User) FromResponse(resp *UserResponse) {
	if resp.ID != nil {
		u.ID = *resp.ID
	}
	u.Name = resp.Name
	u.Email = nil
	if resp.Email != "" {
		email := resp.Email
		u.Email = &email
	}
	u.Age = resp.Age
	u.Status = string(resp.Status)
	u.CreatedAt = resp.CreatedAt
}

// ToResponse rebuilds the response entity from the row.
func (u *User) ToResponse() *UserResponse {
	id := u.ID
	resp := &UserResponse{
		ID:        &id,
		Name:      u.Name,
		Age:       u.Age,
		Status:    UserStatus(u.Status),
		CreatedAt: u.CreatedAt,
	}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	return resp
}

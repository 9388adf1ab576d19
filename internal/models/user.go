package models

import "time"

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"_id"`
	Name     string `gorm:"size:100;not null;index" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ref is the public projection of a user embedded in questions, answers and comments.
func (u User) Ref() AuthorRef {
	return AuthorRef{ID: u.ID, Name: u.Name}
}

type AuthorRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UserProfile is a user together with the questions they asked, newest first.
type UserProfile struct {
	User      User              `json:"user"`
	Questions []QuestionSummary `json:"questions"`
}

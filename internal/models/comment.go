package models

import "time"

type Comment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	AuthorID   string    `gorm:"type:uuid;not null;index" json:"author"`
	QuestionID string    `gorm:"type:uuid;not null;index" json:"question"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

package models

import "time"

type Answer struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	AuthorID   string    `gorm:"type:uuid;not null;index" json:"author"`
	QuestionID string    `gorm:"type:uuid;not null;index" json:"question"`
	Votes      Votes     `gorm:"embedded" json:"votes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (a Answer) Clone() Answer {
	out := a
	out.Votes = a.Votes.Clone()
	return out
}

type CreateAnswerRequest struct {
	Body string `json:"body" binding:"required"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

type QuestionStatus string

const (
	StatusOpen   QuestionStatus = "open"
	StatusClosed QuestionStatus = "closed"
)

// Question is the stored document. Answers and Comments hold ids in insertion order.
type Question struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"_id"`
	Title            string         `gorm:"size:150;not null" json:"title" validate:"required,max=150"`
	Body             string         `gorm:"type:text;not null" json:"body" validate:"required"`
	Tags             pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	AuthorID         string         `gorm:"type:uuid;not null;index" json:"author" validate:"required"`
	Status           QuestionStatus `gorm:"size:16;not null;default:open" json:"status" validate:"oneof=open closed"`
	Votes            Votes          `gorm:"embedded" json:"votes"`
	AcceptedAnswerID *string        `gorm:"type:uuid" json:"acceptedAnswer"`
	AnswerIDs        pq.StringArray `gorm:"column:answer_ids;type:text[];not null;default:'{}'" json:"answers"`
	CommentIDs       pq.StringArray `gorm:"column:comment_ids;type:text[];not null;default:'{}'" json:"comments"`
	CreatedAt        time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	out := q
	out.Tags = append(pq.StringArray{}, q.Tags...)
	out.Votes = q.Votes.Clone()
	out.AnswerIDs = append(pq.StringArray{}, q.AnswerIDs...)
	out.CommentIDs = append(pq.StringArray{}, q.CommentIDs...)
	if q.AcceptedAnswerID != nil {
		id := *q.AcceptedAnswerID
		out.AcceptedAnswerID = &id
	}
	return out
}

type CreateQuestionRequest struct {
	Title string   `json:"title" binding:"required,max=150"`
	Body  string   `json:"body" binding:"required"`
	Tags  []string `json:"tags"`
}

// UpdateQuestionRequest is a patch: nil fields are left as stored.
type UpdateQuestionRequest struct {
	Title  *string         `json:"title" binding:"omitempty,max=150"`
	Body   *string         `json:"body"`
	Tags   []string        `json:"tags"`
	Status *QuestionStatus `json:"status" binding:"omitempty,oneof=open closed"`
}

// QuestionFilter narrows ListQuestions. Zero value lists everything.
type QuestionFilter struct {
	AuthorID string
}

// TagCount is one row of the trending tags aggregation.
type TagCount struct {
	Tag   string `gorm:"column:tag" json:"_id"`
	Count int    `gorm:"column:count" json:"count"`
}

package models

import "time"

// Read models. References are resolved to documents; vote sets stay as id lists.

type AnswerView struct {
	ID         string    `json:"_id"`
	Body       string    `json:"body"`
	Author     AuthorRef `json:"author"`
	QuestionID string    `json:"question"`
	Votes      Votes     `json:"votes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CommentView struct {
	ID         string    `json:"_id"`
	Body       string    `json:"body"`
	Author     AuthorRef `json:"author"`
	QuestionID string    `json:"question"`
	CreatedAt  time.Time `json:"createdAt"`
}

// QuestionCore is shared by the feed and detail projections.
type QuestionCore struct {
	ID        string         `json:"_id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Tags      []string       `json:"tags"`
	Author    AuthorRef      `json:"author"`
	Status    QuestionStatus `json:"status"`
	Votes     Votes          `json:"votes"`
	Comments  []CommentView  `json:"comments"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// QuestionSummary is a feed entry: answers stay as ids.
type QuestionSummary struct {
	QuestionCore
	AcceptedAnswer *string  `json:"acceptedAnswer"`
	Answers        []string `json:"answers"`
}

// QuestionDetail is a fully resolved question.
type QuestionDetail struct {
	QuestionCore
	AcceptedAnswer *AnswerView  `json:"acceptedAnswer"`
	Answers        []AnswerView `json:"answers"`
}

func NewAnswerView(a Answer, author AuthorRef) AnswerView {
	return AnswerView{
		ID:         a.ID,
		Body:       a.Body,
		Author:     author,
		QuestionID: a.QuestionID,
		Votes:      a.Votes.Clone(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewCommentView(c Comment, author AuthorRef) CommentView {
	return CommentView{
		ID:         c.ID,
		Body:       c.Body,
		Author:     author,
		QuestionID: c.QuestionID,
		CreatedAt:  c.CreatedAt,
	}
}

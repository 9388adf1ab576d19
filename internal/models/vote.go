package models

import (
	"slices"

	"github.com/lib/pq"
)

// VoteDirection is +1 for an upvote and -1 for a downvote.
type VoteDirection int

const (
	Upvote   VoteDirection = 1
	Downvote VoteDirection = -1
)

func (d VoteDirection) String() string {
	if d == Downvote {
		return "downvote"
	}
	return "upvote"
}

// Votes holds the voters of a question or answer. A user id is in at most one of the two sets.
type Votes struct {
	Upvotes   pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"upvotes"`
	Downvotes pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"downvotes"`
}

func NewVotes() Votes {
	return Votes{Upvotes: pq.StringArray{}, Downvotes: pq.StringArray{}}
}

// Has reports whether userID already voted in direction d.
func (v Votes) Has(d VoteDirection, userID string) bool {
	if d == Downvote {
		return slices.Contains(v.Downvotes, userID)
	}
	return slices.Contains(v.Upvotes, userID)
}

// Cast moves userID into the set for d, removing it from the opposite set.
// It returns false and leaves v untouched when the vote is already recorded.
func (v *Votes) Cast(d VoteDirection, userID string) bool {
	if v.Has(d, userID) {
		return false
	}

	without := func(ids pq.StringArray) pq.StringArray {
		out := make(pq.StringArray, 0, len(ids))
		for _, id := range ids {
			if id != userID {
				out = append(out, id)
			}
		}
		return out
	}

	if d == Downvote {
		v.Upvotes = without(v.Upvotes)
		v.Downvotes = append(v.Downvotes, userID)
	} else {
		v.Downvotes = without(v.Downvotes)
		v.Upvotes = append(v.Upvotes, userID)
	}
	return true
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (v Votes) Clone() Votes {
	return Votes{
		Upvotes:   append(pq.StringArray{}, v.Upvotes...),
		Downvotes: append(pq.StringArray{}, v.Downvotes...),
	}
}

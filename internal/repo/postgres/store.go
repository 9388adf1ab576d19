package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/observability"
)

// Store is the gorm backed implementation of services.Store.
type Store struct {
	db   *gorm.DB
	prom *observability.Prom
	now  func() time.Time
}

// NewStore wraps db. prom may be nil.
func NewStore(db *gorm.DB, prom *observability.Prom) *Store {
	return &Store{
		db:   db,
		prom: prom,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) observe(op string, fn func() error) error {
	return s.prom.ObserveDB(op, fn)
}

// validID filters out strings the uuid columns would reject with a cast error.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || observability.IsUniqueViolation(err)
}

// voteColumns returns the set a vote in d lands in and the set it leaves.
func voteColumns(d models.VoteDirection) (own, other string) {
	if d == models.Downvote {
		return "downvotes", "upvotes"
	}
	return "upvotes", "downvotes"
}

// voteSQL moves userID into the own set in one statement. The WHERE clause
// makes a repeated vote a no-op, so concurrent duplicates land once.
func voteSQL(table string, d models.VoteDirection) string {
	own, other := voteColumns(d)
	return fmt.Sprintf(
		`UPDATE %[1]s
		 SET %[2]s = array_append(COALESCE(%[2]s, '{}'), ?::text),
		     %[3]s = array_remove(COALESCE(%[3]s, '{}'), ?::text),
		     updated_at = ?
		 WHERE id = ? AND NOT (COALESCE(%[2]s, '{}') @> ARRAY[?::text])
		 RETURNING *`,
		table, own, other,
	)
}

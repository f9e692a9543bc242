package store

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ChatMessages persists assistant conversation turns. The assistant itself
// is an external collaborator; this repository only appends and reads.
type ChatMessages struct {
	db *bun.DB
}

func NewChatMessages(db *bun.DB) *ChatMessages {
	return &ChatMessages{db: db}
}

func (r *ChatMessages) Append(ctx context.Context, msg *ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert chat message")
	}
	return nil
}

// History returns a session's messages in conversation order, scoped to the
// owning user so sessions cannot be read across accounts.
func (r *ChatMessages) History(ctx context.Context, userID, sessionID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []ChatMessage
	err := r.db.NewSelect().Model(&records).
		Where("user_id = ?", userID).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list chat history")
	}
	return records, nil
}

func (r *ChatMessages) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().Model((*ChatMessage)(nil)).
		Where("timestamp < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to purge chat messages")
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

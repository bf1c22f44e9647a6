package archivestore

import (
	"context"
	"fmt"
	"strings"

	"theater-booking-api/internal/infra"
	"theater-booking-api/internal/infra/db"
	"theater-booking-api/internal/infra/schema"
	"theater-booking-api/internal/pkg/errs"
)

var ErrMissingFeedbackKey = errs.New("feedback record has neither mongoId nor feedbackId")

// Feedback is the parallel, simpler archival entity. mongo_id is the natural
// key; the same idempotent-upsert discipline as bookings applies.
type Feedback struct {
	MongoID    string   `json:"mongoId"`
	FeedbackID *int64   `json:"feedbackId,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Message    *string  `json:"message,omitempty"`
	CreatedAt  *string  `json:"createdAt,omitempty"`
}

// FeedbackRef identifies a feedback row by external identity or numeric id.
type FeedbackRef struct {
	MongoID    string
	FeedbackID *int64
}

// FeedbackUpdate carries a partial update; nil fields are left untouched.
type FeedbackUpdate struct {
	Name    *string  `json:"name,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	Message *string  `json:"message,omitempty"`
}

type FeedbackStore struct {
	db      db.DBTX
	ensurer *schema.Ensurer
}

func NewFeedbackStore(dbtx db.DBTX, ensurer *schema.Ensurer) *FeedbackStore {
	return &FeedbackStore{db: dbtx, ensurer: ensurer}
}

func (s *FeedbackStore) Upsert(ctx context.Context, fb Feedback) error {
	if strings.TrimSpace(fb.MongoID) == "" {
		return infra.WrapRepoErr("cannot upsert feedback", ErrMissingFeedbackKey, infra.KindNotFound)
	}

	if _, err := s.ensurer.Ensure(ctx, TableFeedback); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO feedback (mongo_id, feedback_id, name, email, rating, message, source_created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (mongo_id) DO UPDATE SET
			feedback_id = EXCLUDED.feedback_id,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			rating = EXCLUDED.rating,
			message = EXCLUDED.message,
			source_created_at = EXCLUDED.source_created_at`,
		fb.MongoID, fb.FeedbackID, fb.Name, fb.Email, fb.Rating, fb.Message, fb.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert feedback", err)
	}
	return nil
}

func (s *FeedbackStore) Update(ctx context.Context, ref FeedbackRef, upd FeedbackUpdate) error {
	where, arg, err := ref.predicate(1)
	if err != nil {
		return infra.WrapRepoErr("cannot update feedback", err, infra.KindNotFound)
	}

	sets := make([]string, 0, 4)
	args := []any{arg}
	appendSet := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.Rating != nil {
		appendSet("rating", *upd.Rating)
	}
	if upd.Message != nil {
		appendSet("message", *upd.Message)
	}
	if len(sets) == 0 {
		return nil
	}

	tag, err := s.db.Exec(ctx,
		"UPDATE feedback SET "+strings.Join(sets, ", ")+" WHERE "+where, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update feedback", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("feedback not found", nil, infra.KindNotFound)
	}
	return nil
}

func (s *FeedbackStore) Delete(ctx context.Context, ref FeedbackRef) error {
	where, arg, err := ref.predicate(1)
	if err != nil {
		return infra.WrapRepoErr("cannot delete feedback", err, infra.KindNotFound)
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM feedback WHERE "+where, arg)
	if err != nil {
		return infra.WrapRepoErr("failed to delete feedback", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("feedback not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r FeedbackRef) predicate(argPos int) (string, any, error) {
	if strings.TrimSpace(r.MongoID) != "" {
		return fmt.Sprintf("mongo_id = $%d", argPos), r.MongoID, nil
	}
	if r.FeedbackID != nil {
		return fmt.Sprintf("feedback_id = $%d", argPos), *r.FeedbackID, nil
	}
	return "", nil, ErrMissingFeedbackKey
}

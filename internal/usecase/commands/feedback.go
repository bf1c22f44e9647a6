package commands

import (
	"context"

	"theater-booking-api/internal/infra/archivestore"
)

// FeedbackStore is the feedback side of the archival store.
type FeedbackStore interface {
	Upsert(ctx context.Context, fb archivestore.Feedback) error
	Update(ctx context.Context, ref archivestore.FeedbackRef, upd archivestore.FeedbackUpdate) error
	Delete(ctx context.Context, ref archivestore.FeedbackRef) error
}

type FeedbackCommands interface {
	Upsert(ctx context.Context, fb archivestore.Feedback) error
	Update(ctx context.Context, ref archivestore.FeedbackRef, upd archivestore.FeedbackUpdate) error
	Delete(ctx context.Context, ref archivestore.FeedbackRef) error
}

type feedbackCommandsImpl struct {
	store FeedbackStore
}

func NewFeedbackCommands(store FeedbackStore) FeedbackCommands {
	return &feedbackCommandsImpl{store: store}
}

func (u *feedbackCommandsImpl) Upsert(ctx context.Context, fb archivestore.Feedback) error {
	return u.store.Upsert(ctx, fb)
}

func (u *feedbackCommandsImpl) Update(ctx context.Context, ref archivestore.FeedbackRef, upd archivestore.FeedbackUpdate) error {
	return u.store.Update(ctx, ref, upd)
}

func (u *feedbackCommandsImpl) Delete(ctx context.Context, ref archivestore.FeedbackRef) error {
	return u.store.Delete(ctx, ref)
}

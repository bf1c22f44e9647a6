package request

import "theater-booking-api/internal/infra/archivestore"

type UpsertFeedbackRequest struct {
	MongoID    string   `json:"mongoId" binding:"required"`
	FeedbackID *int64   `json:"feedbackId"`
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Rating     *float64 `json:"rating"`
	Message    *string  `json:"message"`
	CreatedAt  *string  `json:"createdAt"`
}

func (r UpsertFeedbackRequest) ToRecord() archivestore.Feedback {
	return archivestore.Feedback{
		MongoID:    r.MongoID,
		FeedbackID: r.FeedbackID,
		Name:       r.Name,
		Email:      r.Email,
		Rating:     r.Rating,
		Message:    r.Message,
		CreatedAt:  r.CreatedAt,
	}
}

type UpdateFeedbackRequest struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email"`
	Rating  *float64 `json:"rating"`
	Message *string  `json:"message"`
}

func (r UpdateFeedbackRequest) ToUpdate() archivestore.FeedbackUpdate {
	return archivestore.FeedbackUpdate{
		Name:    r.Name,
		Email:   r.Email,
		Rating:  r.Rating,
		Message: r.Message,
	}
}

// Package operational talks to the primary booking store. The archival
// engine never mutates live bookings except for one operation: removing the
// operational document after its archival row has been written.
package operational

import (
	"context"

	"theater-booking-api/internal/infra"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const bookingsCollection = "bookings"

type BookingDeleter struct {
	col *mongo.Collection
}

func NewBookingDeleter(database *mongo.Database) *BookingDeleter {
	return &BookingDeleter{col: database.Collection(bookingsCollection)}
}

// Delete removes the live booking document. It matches on bookingId and, when
// the caller passes a valid object id, on _id as well, covering both document
// generations. A missing document is not an error: the row may already have
// been removed by a retried transition.
func (d *BookingDeleter) Delete(ctx context.Context, bookingID, mongoID string) error {
	filters := bson.A{bson.M{"bookingId": bookingID}}
	if oid, err := primitive.ObjectIDFromHex(mongoID); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}

	_, err := d.col.DeleteOne(ctx, bson.M{"$or": filters})
	if err != nil {
		return infra.WrapRepoErr("failed to delete operational booking", err, infra.KindUnreachable)
	}
	return nil
}

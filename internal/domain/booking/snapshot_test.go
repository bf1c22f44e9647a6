//go:build unit

package booking_test

import (
	"encoding/json"
	"testing"

	"theater-booking-api/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Unmarshal(t *testing.T) {
	raw := `{
		"bookingId": "B100",
		"_id": "66f1a2b3c4d5e6f7a8b9c0d1",
		"name": "Asha",
		"email": "asha@example.com",
		"date": "2026-02-20",
		"time": "19:00",
		"cancellationReason": "customer request",
		"totalAmount": "5000",
		"advanceAmount": null,
		"occasions": {"Birthday Person": "Riya"},
		"_originalBooking": {
			"bookingId": "B100",
			"bookingDate": "2026-02-19",
			"paymentStatus": "partial"
		}
	}`

	var snap booking.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	assert.Equal(t, "B100", snap.BookingID)
	assert.Equal(t, "66f1a2b3c4d5e6f7a8b9c0d1", snap.MongoID)
	assert.Equal(t, "2026-02-20", *snap.BookingDate, "date aliases bookingDate")
	assert.Equal(t, "19:00", *snap.BookingTime)
	assert.Equal(t, "customer request", *snap.CancelReason, "cancellationReason aliases cancelReason")

	require.NotNil(t, snap.TotalAmount.Value())
	assert.Equal(t, float64(5000), *snap.TotalAmount.Value(), "numeric string coerced")
	assert.True(t, snap.AdvanceAmount.Present())
	assert.Nil(t, snap.AdvanceAmount.Value())

	require.NotNil(t, snap.Original)
	assert.Equal(t, "2026-02-19", *snap.Original.BookingDate)
	assert.Equal(t, "partial", *snap.Original.PaymentStatus)
}

func TestSnapshot_MarshalRoundTrip(t *testing.T) {
	raw := `{
		"bookingId": "B100",
		"name": "Asha",
		"totalAmount": 5000,
		"selectedSnacks": ["Popcorn"],
		"customNote": "window seat",
		"_originalBooking": {"bookingId": "B100", "couponCode": "NEWYEAR"}
	}`

	var snap booking.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	out, err := json.Marshal(snap)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "B100", doc["bookingId"])
	assert.Equal(t, float64(5000), doc["totalAmount"])
	assert.Equal(t, []any{"Popcorn"}, doc["selectedSnacks"])
	assert.Equal(t, "window seat", doc["customNote"])

	original, ok := doc["_originalBooking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NEWYEAR", original["couponCode"])
}

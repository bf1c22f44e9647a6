package archivestore

import (
	"encoding/json"
	"strings"
	"time"

	"theater-booking-api/internal/domain/booking"
	"theater-booking-api/internal/infra/schema"
)

const (
	TableCancelled = "cancelled_bookings"
	TableCompleted = "completed_bookings"
	TableFeedback  = "feedback"
)

// rowInput carries everything a column extractor may need for one upsert.
type rowInput struct {
	snap booking.Snapshot
	blob string
	now  time.Time
}

// columnSpec binds one stored column to its DDL and its value extractor.
// Columns marked legacy form the original, stable column set that every
// deployment has; the rest were added over time and are healed in by the
// schema ensurer. The legacy fallback statement covers only legacy columns.
type columnSpec struct {
	name   string
	ddl    string
	legacy bool
	value  func(in rowInput) any
}

func sharedLegacyColumns() []columnSpec {
	return []columnSpec{
		{name: "booking_id", ddl: "TEXT NOT NULL UNIQUE", legacy: true,
			value: func(in rowInput) any { return in.snap.BookingID }},
		{name: "mongo_id", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return nullableText(in.snap.MongoID) }},
		{name: "name", ddl: "TEXT NOT NULL", legacy: true,
			value: func(in rowInput) any { return in.snap.DisplayName() }},
		{name: "email", ddl: "TEXT NOT NULL", legacy: true,
			value: func(in rowInput) any { return in.snap.ContactEmail() }},
		{name: "theater_name", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.TheaterName }},
		{name: "booking_date", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.BookingDate }},
		{name: "booking_time", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.BookingTime }},
		{name: "occasion", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.Occasion }},
		{name: "person_name", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.PersonName }},
		{name: "number_of_people", ddl: "NUMERIC", legacy: true,
			value: func(in rowInput) any { return in.snap.NumberOfPeople.Value() }},
		{name: "total_amount", ddl: "NUMERIC", legacy: true,
			value: func(in rowInput) any { return in.snap.TotalAmount.Value() }},
		{name: "advance_amount", ddl: "NUMERIC", legacy: true,
			value: func(in rowInput) any { return in.snap.AdvanceAmount.Value() }},
		{name: "payment_status", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.PaymentStatus }},
		{name: "source_created_at", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.CreatedAt }},
		{name: "raw_payload", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.blob }},
		{name: "archived_at", ddl: "TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP", legacy: true,
			value: func(in rowInput) any { return in.now }},
	}
}

func sharedExtendedColumns() []columnSpec {
	return []columnSpec{
		{name: "venue_payment", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.VenuePayment.Value() }},
		{name: "payable_amount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.PayableAmount.Value() }},
		{name: "discount_amount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.DiscountAmount.Value() }},
		{name: "admin_discount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.AdminDiscount.Value() }},
		{name: "coupon_code", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.CouponCode }},
		{name: "coupon_discount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.CouponDiscount.Value() }},
		{name: "decoration_fee_discount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.DecorationFeeDiscount.Value() }},
		{name: "decoration_fee", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.DecorationFee.Value() }},
		{name: "extra_guest_charge", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.ExtraGuestCharge.Value() }},
		{name: "penalty_charge", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.PenaltyCharge.Value() }},
		{name: "payment_method", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.PaymentMethod }},
		{name: "venue_payment_method", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.VenuePaymentMethod }},
		{name: "paid_by", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.PaidBy }},
		{name: "paid_at", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.PaidAt }},
		{name: "payment_received", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.PaymentReceived() }},
		{name: "created_by_type", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.CreatedByType }},
		{name: "created_by_name", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.CreatedByName }},
		{name: "staff_id", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.StaffID }},
		{name: "staff_name", ddl: "TEXT",
			value: func(in rowInput) any { return in.snap.StaffName }},
		{name: "occasion1_label", ddl: "TEXT",
			value: func(in rowInput) any { return occasionField(in.snap, 0, true) }},
		{name: "occasion1_value", ddl: "TEXT",
			value: func(in rowInput) any { return occasionField(in.snap, 0, false) }},
		{name: "occasion2_label", ddl: "TEXT",
			value: func(in rowInput) any { return occasionField(in.snap, 1, true) }},
		{name: "occasion2_value", ddl: "TEXT",
			value: func(in rowInput) any { return occasionField(in.snap, 1, false) }},
		{name: "selected_movies", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItems(in.snap.SelectedMovies) }},
		{name: "selected_cakes", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItems(in.snap.SelectedCakes) }},
		{name: "selected_decorations", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItems(in.snap.SelectedDecorations) }},
		{name: "selected_gifts", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItems(in.snap.SelectedGifts) }},
		{name: "selected_food", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItems(in.snap.SelectedFood) }},
		{name: "other_selected_items", ddl: "TEXT",
			value: func(in rowInput) any { return encodeItemMap(in.snap.OtherSelected) }},
	}
}

func cancelledColumns() []columnSpec {
	cols := sharedLegacyColumns()
	cols = append(cols,
		columnSpec{name: "cancelled_at", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.CancelledAt }},
		columnSpec{name: "cancellation_reason", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.CancelReason }},
	)
	cols = append(cols, sharedExtendedColumns()...)
	cols = append(cols,
		columnSpec{name: "refund_amount", ddl: "NUMERIC",
			value: func(in rowInput) any { return in.snap.RefundAmount.Value() }},
	)
	return cols
}

func completedColumns() []columnSpec {
	cols := sharedLegacyColumns()
	cols = append(cols,
		columnSpec{name: "completed_at", ddl: "TEXT", legacy: true,
			value: func(in rowInput) any { return in.snap.CompletedAt }},
	)
	return append(cols, sharedExtendedColumns()...)
}

// Tables exposes the schema specs the ensurer heals: the base create covers
// the legacy column set, everything else is additive.
func Tables() []schema.Table {
	return []schema.Table{
		tableSpec(TableCancelled, cancelledColumns()),
		tableSpec(TableCompleted, completedColumns()),
		feedbackTableSpec(),
	}
}

func tableSpec(name string, cols []columnSpec) schema.Table {
	defs := make([]string, 0, len(cols))
	extended := make([]schema.Column, 0, len(cols))
	for _, col := range cols {
		if col.legacy {
			defs = append(defs, col.name+" "+col.ddl)
			continue
		}
		extended = append(extended, schema.Column{Name: col.name, DDL: col.ddl})
	}

	createSQL := "CREATE TABLE IF NOT EXISTS " + name +
		" (id BIGSERIAL PRIMARY KEY, " + strings.Join(defs, ", ") + ")"

	return schema.Table{Name: name, CreateSQL: createSQL, Extended: extended}
}

func feedbackTableSpec() schema.Table {
	return schema.Table{
		Name: TableFeedback,
		CreateSQL: "CREATE TABLE IF NOT EXISTS " + TableFeedback + " (" +
			"id BIGSERIAL PRIMARY KEY, " +
			"mongo_id TEXT NOT NULL UNIQUE, " +
			"feedback_id BIGINT, " +
			"name TEXT, " +
			"email TEXT, " +
			"rating NUMERIC, " +
			"message TEXT, " +
			"source_created_at TEXT, " +
			"archived_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP)",
	}
}

func occasionField(s booking.Snapshot, idx int, label bool) any {
	fields := s.PromotedOccasions()
	if idx >= len(fields) {
		return nil
	}
	if label {
		return fields[idx].Label
	}
	return fields[idx].Value
}

func encodeItems(items []any) any {
	if items == nil {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return string(raw)
}

func encodeItemMap(items map[string]any) any {
	if len(items) == 0 {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return string(raw)
}

func nullableText(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

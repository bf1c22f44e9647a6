// Package booking models the in-memory booking snapshot handed to the
// archival engine at the moment a booking is cancelled or completed, and the
// reconciliation rules that turn it into one canonical record.
package booking

import (
	"encoding/json"
	"strings"
)

const (
	// Fallbacks keep the archival tables' NOT NULL identity columns satisfied
	// when an old producer omits contact details.
	DefaultName  = "Guest"
	DefaultEmail = "not-provided@theater.local"
)

// Snapshot is the full booking document at a lifecycle transition. Optional
// fields are pointers (nil = absent) so reconciliation can tell "not sent"
// apart from an empty value. Anything not modelled explicitly lands in
// OtherSelected (for selected* collections) or Extra, so new upstream fields
// are preserved in the raw blob instead of silently dropped.
type Snapshot struct {
	BookingID string
	MongoID   string

	Name  string
	Email string

	TheaterName *string
	BookingDate *string
	BookingTime *string
	Occasion    *string
	PersonName  *string

	NumberOfPeople Amount

	TotalAmount           Amount
	AdvanceAmount         Amount
	VenuePayment          Amount
	PayableAmount         Amount
	DiscountAmount        Amount
	AdminDiscount         Amount
	CouponDiscount        Amount
	DecorationFeeDiscount Amount
	DecorationFee         Amount
	ExtraGuestCharge      Amount
	PenaltyCharge         Amount
	RefundAmount          Amount

	CouponCode         *string
	PaymentStatus      *string
	PaymentMethod      *string
	VenuePaymentMethod *string
	PaidBy             *string
	PaidAt             *string

	CreatedByType *string
	CreatedByName *string
	StaffID       *string
	StaffName     *string
	CreatedAt     *string

	CancelledAt  *string
	CancelReason *string
	CompletedAt  *string

	// Occasions is the structured label -> value map written by newer
	// producers. Older documents carry "<field>_label"/"<field>" pairs in
	// Extra instead; see PromotedOccasions.
	Occasions map[string]string

	SelectedMovies      []any
	SelectedCakes       []any
	SelectedDecorations []any
	SelectedGifts       []any
	SelectedFood        []any

	// OtherSelected collects any selected* key without a dedicated column.
	OtherSelected map[string]any

	// Original is the pre-transition document nested under _originalBooking.
	Original *Snapshot

	// Extra holds every unrecognized top-level key.
	Extra map[string]any
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	for key, raw := range doc {
		if err := s.assignField(key, raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Snapshot) assignField(key string, raw json.RawMessage) error {
	switch key {
	case "bookingId":
		s.BookingID = stringValue(raw)
	case "_id", "mongoId":
		s.MongoID = stringValue(raw)
	case "name":
		s.Name = stringValue(raw)
	case "email":
		s.Email = stringValue(raw)
	case "theaterName":
		s.TheaterName = stringPtr(raw)
	case "date", "bookingDate":
		s.BookingDate = stringPtr(raw)
	case "time", "bookingTime":
		s.BookingTime = stringPtr(raw)
	case "occasion":
		s.Occasion = stringPtr(raw)
	case "personName":
		s.PersonName = stringPtr(raw)
	case "numberOfPeople":
		return json.Unmarshal(raw, &s.NumberOfPeople)
	case "totalAmount":
		return json.Unmarshal(raw, &s.TotalAmount)
	case "advanceAmount":
		return json.Unmarshal(raw, &s.AdvanceAmount)
	case "venuePayment":
		return json.Unmarshal(raw, &s.VenuePayment)
	case "payableAmount":
		return json.Unmarshal(raw, &s.PayableAmount)
	case "discountAmount":
		return json.Unmarshal(raw, &s.DiscountAmount)
	case "adminDiscount":
		return json.Unmarshal(raw, &s.AdminDiscount)
	case "couponDiscount":
		return json.Unmarshal(raw, &s.CouponDiscount)
	case "decorationFeeDiscount":
		return json.Unmarshal(raw, &s.DecorationFeeDiscount)
	case "decorationFee":
		return json.Unmarshal(raw, &s.DecorationFee)
	case "extraGuestCharge":
		return json.Unmarshal(raw, &s.ExtraGuestCharge)
	case "penaltyCharge":
		return json.Unmarshal(raw, &s.PenaltyCharge)
	case "refundAmount":
		return json.Unmarshal(raw, &s.RefundAmount)
	case "couponCode":
		s.CouponCode = stringPtr(raw)
	case "paymentStatus":
		s.PaymentStatus = stringPtr(raw)
	case "paymentMethod":
		s.PaymentMethod = stringPtr(raw)
	case "venuePaymentMethod":
		s.VenuePaymentMethod = stringPtr(raw)
	case "paidBy":
		s.PaidBy = stringPtr(raw)
	case "paidAt":
		s.PaidAt = stringPtr(raw)
	case "createdByType":
		s.CreatedByType = stringPtr(raw)
	case "createdByName":
		s.CreatedByName = stringPtr(raw)
	case "staffId":
		s.StaffID = stringPtr(raw)
	case "staffName":
		s.StaffName = stringPtr(raw)
	case "createdAt":
		s.CreatedAt = stringPtr(raw)
	case "cancelledAt":
		s.CancelledAt = stringPtr(raw)
	case "cancelReason", "cancellationReason":
		s.CancelReason = stringPtr(raw)
	case "completedAt":
		s.CompletedAt = stringPtr(raw)
	case "occasions":
		return json.Unmarshal(raw, &s.Occasions)
	case "selectedMovies":
		return json.Unmarshal(raw, &s.SelectedMovies)
	case "selectedCakes":
		return json.Unmarshal(raw, &s.SelectedCakes)
	case "selectedDecorations":
		return json.Unmarshal(raw, &s.SelectedDecorations)
	case "selectedGifts":
		return json.Unmarshal(raw, &s.SelectedGifts)
	case "selectedFood":
		return json.Unmarshal(raw, &s.SelectedFood)
	case "_originalBooking":
		s.Original = &Snapshot{}
		return json.Unmarshal(raw, s.Original)
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if strings.HasPrefix(key, "selected") {
			if s.OtherSelected == nil {
				s.OtherSelected = make(map[string]any)
			}
			s.OtherSelected[key] = v
			return nil
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = v
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, 32)

	for k, v := range s.Extra {
		doc[k] = v
	}
	for k, v := range s.OtherSelected {
		doc[k] = v
	}

	putString(doc, "bookingId", s.BookingID)
	putString(doc, "mongoId", s.MongoID)
	putString(doc, "name", s.Name)
	putString(doc, "email", s.Email)

	putStringPtr(doc, "theaterName", s.TheaterName)
	putStringPtr(doc, "date", s.BookingDate)
	putStringPtr(doc, "time", s.BookingTime)
	putStringPtr(doc, "occasion", s.Occasion)
	putStringPtr(doc, "personName", s.PersonName)

	putAmount(doc, "numberOfPeople", s.NumberOfPeople)
	putAmount(doc, "totalAmount", s.TotalAmount)
	putAmount(doc, "advanceAmount", s.AdvanceAmount)
	putAmount(doc, "venuePayment", s.VenuePayment)
	putAmount(doc, "payableAmount", s.PayableAmount)
	putAmount(doc, "discountAmount", s.DiscountAmount)
	putAmount(doc, "adminDiscount", s.AdminDiscount)
	putAmount(doc, "couponDiscount", s.CouponDiscount)
	putAmount(doc, "decorationFeeDiscount", s.DecorationFeeDiscount)
	putAmount(doc, "decorationFee", s.DecorationFee)
	putAmount(doc, "extraGuestCharge", s.ExtraGuestCharge)
	putAmount(doc, "penaltyCharge", s.PenaltyCharge)
	putAmount(doc, "refundAmount", s.RefundAmount)

	putStringPtr(doc, "couponCode", s.CouponCode)
	putStringPtr(doc, "paymentStatus", s.PaymentStatus)
	putStringPtr(doc, "paymentMethod", s.PaymentMethod)
	putStringPtr(doc, "venuePaymentMethod", s.VenuePaymentMethod)
	putStringPtr(doc, "paidBy", s.PaidBy)
	putStringPtr(doc, "paidAt", s.PaidAt)
	putStringPtr(doc, "createdByType", s.CreatedByType)
	putStringPtr(doc, "createdByName", s.CreatedByName)
	putStringPtr(doc, "staffId", s.StaffID)
	putStringPtr(doc, "staffName", s.StaffName)
	putStringPtr(doc, "createdAt", s.CreatedAt)
	putStringPtr(doc, "cancelledAt", s.CancelledAt)
	putStringPtr(doc, "cancelReason", s.CancelReason)
	putStringPtr(doc, "completedAt", s.CompletedAt)

	if len(s.Occasions) > 0 {
		doc["occasions"] = s.Occasions
	}
	if s.SelectedMovies != nil {
		doc["selectedMovies"] = s.SelectedMovies
	}
	if s.SelectedCakes != nil {
		doc["selectedCakes"] = s.SelectedCakes
	}
	if s.SelectedDecorations != nil {
		doc["selectedDecorations"] = s.SelectedDecorations
	}
	if s.SelectedGifts != nil {
		doc["selectedGifts"] = s.SelectedGifts
	}
	if s.SelectedFood != nil {
		doc["selectedFood"] = s.SelectedFood
	}
	if s.Original != nil {
		doc["_originalBooking"] = *s.Original
	}

	return json.Marshal(doc)
}

// DisplayName returns the booking holder name with the non-null fallback.
func (s Snapshot) DisplayName() string {
	if strings.TrimSpace(s.Name) == "" {
		return DefaultName
	}
	return s.Name
}

// ContactEmail returns the booking email with the non-null fallback.
func (s Snapshot) ContactEmail() string {
	if strings.TrimSpace(s.Email) == "" {
		return DefaultEmail
	}
	return s.Email
}

func stringValue(raw json.RawMessage) string {
	if p := stringPtr(raw); p != nil {
		return *p
	}
	return ""
}

func stringPtr(raw json.RawMessage) *string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func putString(doc map[string]any, key, v string) {
	if v != "" {
		doc[key] = v
	}
}

func putStringPtr(doc map[string]any, key string, v *string) {
	if v != nil {
		doc[key] = *v
	}
}

func putAmount(doc map[string]any, key string, a Amount) {
	if a.Present() {
		doc[key] = a
	}
}

package booking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"theater-booking-api/internal/pkg/patch"
)

// maxPromotedOccasions matches the pair of occasion label/value columns on
// the archival tables.
const maxPromotedOccasions = 2

// OccasionField is one promoted occasion label/value pair.
type OccasionField struct {
	Label string
	Value string
}

// Reconcile merges the snapshot with its nested original booking into one
// canonical record. The two producers of snapshots populate different
// subsets: a cancellation snapshot carries the latest state but may omit
// payment-completion fields that only exist on the original. Precedence is
// field-by-field: anything present on the current record wins, anything
// absent falls back to the original. The nested original itself is kept so
// the raw blob preserves full fidelity.
func Reconcile(cur Snapshot) Snapshot {
	orig := cur.Original
	if orig == nil {
		return cur
	}

	out := cur

	if strings.TrimSpace(out.BookingID) == "" {
		out.BookingID = orig.BookingID
	}
	if strings.TrimSpace(out.MongoID) == "" {
		out.MongoID = orig.MongoID
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = orig.Name
	}
	if strings.TrimSpace(out.Email) == "" {
		out.Email = orig.Email
	}

	out.TheaterName = patch.FirstNonNil(cur.TheaterName, orig.TheaterName)
	out.BookingDate = patch.FirstNonNil(cur.BookingDate, orig.BookingDate)
	out.BookingTime = patch.FirstNonNil(cur.BookingTime, orig.BookingTime)
	out.Occasion = patch.FirstNonNil(cur.Occasion, orig.Occasion)
	out.PersonName = patch.FirstNonNil(cur.PersonName, orig.PersonName)

	out.NumberOfPeople = pickAmount(cur.NumberOfPeople, orig.NumberOfPeople)
	out.TotalAmount = pickAmount(cur.TotalAmount, orig.TotalAmount)
	out.AdvanceAmount = pickAmount(cur.AdvanceAmount, orig.AdvanceAmount)
	out.VenuePayment = pickAmount(cur.VenuePayment, orig.VenuePayment)
	out.PayableAmount = pickAmount(cur.PayableAmount, orig.PayableAmount)
	out.DiscountAmount = pickAmount(cur.DiscountAmount, orig.DiscountAmount)
	out.AdminDiscount = pickAmount(cur.AdminDiscount, orig.AdminDiscount)
	out.CouponDiscount = pickAmount(cur.CouponDiscount, orig.CouponDiscount)
	out.DecorationFeeDiscount = pickAmount(cur.DecorationFeeDiscount, orig.DecorationFeeDiscount)
	out.DecorationFee = pickAmount(cur.DecorationFee, orig.DecorationFee)
	out.ExtraGuestCharge = pickAmount(cur.ExtraGuestCharge, orig.ExtraGuestCharge)
	out.PenaltyCharge = pickAmount(cur.PenaltyCharge, orig.PenaltyCharge)
	out.RefundAmount = pickAmount(cur.RefundAmount, orig.RefundAmount)

	out.CouponCode = patch.FirstNonNil(cur.CouponCode, orig.CouponCode)
	out.PaymentStatus = patch.FirstNonNil(cur.PaymentStatus, orig.PaymentStatus)
	out.PaymentMethod = patch.FirstNonNil(cur.PaymentMethod, orig.PaymentMethod)
	out.VenuePaymentMethod = patch.FirstNonNil(cur.VenuePaymentMethod, orig.VenuePaymentMethod)
	out.PaidBy = patch.FirstNonNil(cur.PaidBy, orig.PaidBy)
	out.PaidAt = patch.FirstNonNil(cur.PaidAt, orig.PaidAt)
	out.CreatedByType = patch.FirstNonNil(cur.CreatedByType, orig.CreatedByType)
	out.CreatedByName = patch.FirstNonNil(cur.CreatedByName, orig.CreatedByName)
	out.StaffID = patch.FirstNonNil(cur.StaffID, orig.StaffID)
	out.StaffName = patch.FirstNonNil(cur.StaffName, orig.StaffName)
	out.CreatedAt = patch.FirstNonNil(cur.CreatedAt, orig.CreatedAt)
	out.CancelledAt = patch.FirstNonNil(cur.CancelledAt, orig.CancelledAt)
	out.CancelReason = patch.FirstNonNil(cur.CancelReason, orig.CancelReason)
	out.CompletedAt = patch.FirstNonNil(cur.CompletedAt, orig.CompletedAt)

	if len(out.Occasions) == 0 {
		out.Occasions = orig.Occasions
	}
	if out.SelectedMovies == nil {
		out.SelectedMovies = orig.SelectedMovies
	}
	if out.SelectedCakes == nil {
		out.SelectedCakes = orig.SelectedCakes
	}
	if out.SelectedDecorations == nil {
		out.SelectedDecorations = orig.SelectedDecorations
	}
	if out.SelectedGifts == nil {
		out.SelectedGifts = orig.SelectedGifts
	}
	if out.SelectedFood == nil {
		out.SelectedFood = orig.SelectedFood
	}

	out.OtherSelected = mergeMaps(cur.OtherSelected, orig.OtherSelected)
	out.Extra = mergeMaps(cur.Extra, orig.Extra)

	return out
}

// PromotedOccasions extracts up to two occasion label/value pairs for the
// structured columns. The structured occasions map wins; without it the
// legacy "<field>_label"/"<field>" pairs in Extra are scanned, and only pairs
// whose value is a non-empty scalar are promoted (object-valued legacy fields
// are discarded).
func (s Snapshot) PromotedOccasions() []OccasionField {
	fields := make([]OccasionField, 0, maxPromotedOccasions)

	if len(s.Occasions) > 0 {
		labels := make([]string, 0, len(s.Occasions))
		for label := range s.Occasions {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			if v := strings.TrimSpace(s.Occasions[label]); v != "" {
				fields = append(fields, OccasionField{Label: label, Value: v})
			}
			if len(fields) == maxPromotedOccasions {
				break
			}
		}
		return fields
	}

	keys := make([]string, 0, len(s.Extra))
	for key := range s.Extra {
		if strings.HasSuffix(key, "_label") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, labelKey := range keys {
		label, ok := s.Extra[labelKey].(string)
		if !ok || strings.TrimSpace(label) == "" {
			continue
		}
		value, ok := scalarString(s.Extra[strings.TrimSuffix(labelKey, "_label")])
		if !ok {
			continue
		}
		fields = append(fields, OccasionField{Label: label, Value: value})
		if len(fields) == maxPromotedOccasions {
			break
		}
	}
	return fields
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return fmt.Sprintf("%t", s), true
	default:
		return "", false
	}
}

func pickAmount(cur, orig Amount) Amount {
	if cur.Present() {
		return cur
	}
	return orig
}

func mergeMaps(cur, orig map[string]any) map[string]any {
	if len(orig) == 0 {
		return cur
	}
	merged := make(map[string]any, len(cur)+len(orig))
	for k, v := range orig {
		merged[k] = v
	}
	for k, v := range cur {
		merged[k] = v
	}
	return merged
}

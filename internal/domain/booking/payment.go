package booking

import "strings"

// PaymentReceived derives the composite "payment received" label stored next
// to the structured payment columns. Payer precedence: an explicit staff or
// admin name beats the generic paidBy role. Roles are normalized so
// "admin"/"administrator" render as "Admin" and "staff" as "Staff".
func (s Snapshot) PaymentReceived() *string {
	method := firstNonEmpty(s.VenuePaymentMethod, s.PaymentMethod)
	payer := s.payerName()

	switch {
	case method != "" && payer != "":
		label := titleCase(method) + " - " + payer
		return &label
	case payer != "":
		return &payer
	case method != "":
		label := titleCase(method)
		return &label
	default:
		return nil
	}
}

func (s Snapshot) payerName() string {
	if name := deref(s.StaffName); strings.TrimSpace(name) != "" {
		return name
	}
	if isStaffLikeRole(deref(s.CreatedByType)) {
		if name := deref(s.CreatedByName); strings.TrimSpace(name) != "" {
			return name
		}
	}
	return normalizeRole(deref(s.PaidBy))
}

func isStaffLikeRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin", "administrator", "staff":
		return true
	}
	return false
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "":
		return ""
	case "admin", "administrator":
		return "Admin"
	case "staff":
		return "Staff"
	default:
		return titleCase(role)
	}
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstNonEmpty(ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil && strings.TrimSpace(*p) != "" {
			return *p
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

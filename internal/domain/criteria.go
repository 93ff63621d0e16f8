package domain

import "fmt"

// PurchasedStatus narrows series by ownership
type PurchasedStatus string

const (
	PurchasedAll          PurchasedStatus = "all"
	PurchasedOnly         PurchasedStatus = "purchased"
	PurchasedNotPurchased PurchasedStatus = "not_purchased"
)

// ParsePurchasedStatus converts user input to a PurchasedStatus.
// The empty string maps to PurchasedAll.
func ParsePurchasedStatus(s string) (PurchasedStatus, error) {
	switch PurchasedStatus(s) {
	case "", PurchasedAll:
		return PurchasedAll, nil
	case PurchasedOnly, PurchasedNotPurchased:
		return PurchasedStatus(s), nil
	default:
		return "", fmt.Errorf("unknown purchased status %q (want all, purchased or not_purchased)", s)
	}
}

// Active reports whether the status restricts results at all
func (p PurchasedStatus) Active() bool {
	return p == PurchasedOnly || p == PurchasedNotPurchased
}

// FilterCriteria selects series. Zero-valued fields are ignored;
// all set fields must match.
type FilterCriteria struct {
	Branch          Branch          // effective livers include this branch
	Year            int             // initial release year, 0 = any
	LiverID         string          // effective livers include this liver
	GroupID         string          // group directly assigned to the series
	PurchasedStatus PurchasedStatus // "", all, purchased, not_purchased
	Query           string          // case-insensitive substring search
}

// IsZero reports whether no criterion is set
func (c FilterCriteria) IsZero() bool {
	return c.Branch == "" && c.Year == 0 && c.LiverID == "" && c.GroupID == "" &&
		!c.PurchasedStatus.Active() && c.Query == ""
}

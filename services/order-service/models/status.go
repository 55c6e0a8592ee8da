package models

import "strings"

// Order statuses. Processing is the initial state. Delivered is a legacy
// value still accepted on input but not part of the forward flow.
const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusHandOver   = "Hand Over for Delivery"
	StatusFinish     = "Finish"
	StatusDelivered  = "Delivered"
)

// AllowedStatuses lists every status an order may hold. Any allowed status
// may be set from any other; there is no forward-only ordering.
var AllowedStatuses = []string{
	StatusProcessing,
	StatusCompleted,
	StatusHandOver,
	StatusFinish,
	StatusDelivered,
}

// CanonicalStatus matches a requested status against the allowed set after
// trimming whitespace, ignoring case. It returns the canonical-cased value
// and whether a match was found.
func CanonicalStatus(requested string) (string, bool) {
	trimmed := strings.TrimSpace(requested)
	for _, s := range AllowedStatuses {
		if strings.EqualFold(trimmed, s) {
			return s, true
		}
	}
	return "", false
}

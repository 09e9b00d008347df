package domain

import "time"

// DueDate returns issueDate plus dueIn days. A nil, zero or negative term
// means the invoice has no due date, not that it is due immediately.
func DueDate(issueDate time.Time, dueIn *int) (time.Time, bool) {
	if dueIn == nil || *dueIn <= 0 {
		return time.Time{}, false
	}
	return issueDate.AddDate(0, 0, *dueIn), true
}

package dto

import "time"

// StatsOverviewResponse is the gate dashboard counter set, recomputed from
// ledger state on every request.
type StatsOverviewResponse struct {
	OnSiteCount   int       `json:"onSiteCount"`
	EnteredToday  int       `json:"enteredToday"`
	ExitedToday   int       `json:"exitedToday"`
	BorrowedToday int       `json:"borrowedToday"`
	PendingReturn int       `json:"pendingReturn"` // Backlog count, no day filter
	AsOf          time.Time `json:"asOf"`
	Day           string    `json:"day"` // Site-local calendar day, YYYY-MM-DD
}

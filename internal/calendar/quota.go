package calendar

import (
	"encoding/json"
	"strconv"
)

// DefaultDailyLimit is the number of events a non-admin may create per day.
const DefaultDailyLimit = 2

// UnlimitedDisplay is how an unlimited quota is rendered.
const UnlimitedDisplay = "∞"

// Quota is the advisory remaining-events-today value for one profile.
// The record store enforces the limit; a Quota only drives what clients show.
type Quota struct {
	Unlimited bool
	Remaining int
}

// NewQuota computes the quota for a profile. Admins are unlimited. Otherwise
// remaining is dailyLimit minus todayCount, clamped at zero.
func NewQuota(isAdmin bool, dailyLimit, todayCount int) Quota {
	if isAdmin {
		return Quota{Unlimited: true}
	}
	remaining := dailyLimit - todayCount
	if remaining < 0 {
		remaining = 0
	}
	return Quota{Remaining: remaining}
}

// CanCreate reports whether the gate passes.
func (q Quota) CanCreate() bool {
	return q.Unlimited || q.Remaining > 0
}

// String returns "∞" for unlimited quotas, the remaining count otherwise.
func (q Quota) String() string {
	if q.Unlimited {
		return UnlimitedDisplay
	}
	return strconv.Itoa(q.Remaining)
}

type quotaJSON struct {
	Remaining *int   `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
	Display   string `json:"display"`
	CanCreate bool   `json:"can_create"`
}

// MarshalJSON encodes remaining as null when unlimited.
func (q Quota) MarshalJSON() ([]byte, error) {
	out := quotaJSON{Unlimited: q.Unlimited, Display: q.String(), CanCreate: q.CanCreate()}
	if !q.Unlimited {
		r := q.Remaining
		out.Remaining = &r
	}
	return json.Marshal(out)
}

// Package clock abstracts time for the ledger, fraud rules and the daily
// scan so their windows are testable.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

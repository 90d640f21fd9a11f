// Package common contains shared constants and sentinel errors used across
// ChargeKeeper components.
package common

// MaxSchedulesPerUser is the maximum number of schedules a single user may
// own at any time. Creation past this limit fails with ErrQuotaExceeded.
const MaxSchedulesPerUser = 10

// SessionTokenKey is the metadata key under which the current session token
// is persisted between runs.
const SessionTokenKey = "session_token"

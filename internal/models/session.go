package models

import "time"

// Session is the server-side state behind the opaque session cookie. It lives
// in the session store keyed by ID; the browser only ever sees the ID.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Role         UserRole  `json:"role"`
	Locale       string    `json:"locale"`
	CSRFToken    string    `json:"csrf_token"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
}

// LockoutRecord tracks consecutive failed logins per hashed client IP.
// Zero value means the Clear state; FirstAttempt starts a counting window.
type LockoutRecord struct {
	AttemptCount int       `json:"attempt_count"`
	FirstAttempt time.Time `json:"first_attempt"`
}

// Expired reports whether the counting window has lapsed.
func (r LockoutRecord) Expired(now time.Time, window time.Duration) bool {
	if r.FirstAttempt.IsZero() {
		return false
	}
	return now.Sub(r.FirstAttempt) >= window
}

// Remaining returns the seconds left until the lockout window opens again.
func (r LockoutRecord) Remaining(now time.Time, window time.Duration) int {
	left := r.FirstAttempt.Add(window).Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds())
}

// internal/app/system/status/status.go
package status

// Registration status values. The set is open: historical documents carry
// free-text statuses, so Unset plus the three managed values are the only
// ones the tooling writes, and anything else passes through untouched.
const (
	Unset     = ""
	Approved  = "Approved"
	Rejected  = "Rejected"
	Cancelled = "Cancelled"
)

// IsManaged reports whether s is one of the statuses the status-update
// commands are allowed to write.
func IsManaged(s string) bool {
	switch s {
	case Approved, Rejected, Cancelled:
		return true
	}
	return false
}

// IsTerminal reports whether a registration with this status is out of the
// event (and therefore a migration candidate).
func IsTerminal(s string) bool {
	return s == Rejected || s == Cancelled
}

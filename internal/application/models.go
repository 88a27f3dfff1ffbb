package application

import (
	"strings"
	"time"
)

const (
	// TimestampLayout is the format of every timestamp written to the store.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the format of the attendance matrix date columns.
	DateLayout = "2006-01-02"
	// PresenceMarker is the cell value marking a member present on a date.
	PresenceMarker = "1"
	// AbsentEmail is stored for guests who did not provide an email address.
	AbsentEmail = "None"
)

// Principal represents the authenticated caller invoking a service method.
type Principal struct {
	Subject string
	IsAdmin bool
}

// Role tags an attendance event.
type Role string

const (
	RoleMember Role = "Member"
	RoleGuest  Role = "Guest"
)

// MeetingCode is the single active access code and its inclusive expiry.
type MeetingCode struct {
	Code      string
	ExpiresAt time.Time
}

// ValidAt reports whether the code is usable at t. The expiry is inclusive.
func (m MeetingCode) ValidAt(t time.Time) bool {
	return m.Code != "" && !t.After(m.ExpiresAt)
}

// Member is a club member from the reference list.
type Member struct {
	Name  string
	Phone string
}

// AttendanceEvent is a single append-only check-in log entry.
type AttendanceEvent struct {
	Timestamp time.Time
	Role      Role
	Name      string
	Phone     string
	Code      string
}

// Row renders the event as [timestamp, role, name, phone, code].
func (e AttendanceEvent) Row() []string {
	return []string{e.Timestamp.Format(TimestampLayout), string(e.Role), e.Name, e.Phone, e.Code}
}

// GuestRecord is the guest log entry written alongside a guest attendance event.
type GuestRecord struct {
	Timestamp time.Time
	Name      string
	Email     string
	Phone     string
	Code      string
}

// Row renders the record as [timestamp, name, email, phone, code].
func (g GuestRecord) Row() []string {
	return []string{g.Timestamp.Format(TimestampLayout), g.Name, g.Email, g.Phone, g.Code}
}

// MemberCheckinParams carries a member check-in submission.
type MemberCheckinParams struct {
	Phone string
	Code  string
}

// GuestCheckinParams carries a guest check-in submission.
type GuestCheckinParams struct {
	Name  string
	Email string
	Phone string
	Code  string
}

// CheckinResult describes a completed check-in. Warning is set when the primary
// log write succeeded but a secondary write failed.
type CheckinResult struct {
	Event   AttendanceEvent
	Guest   *GuestRecord
	Warning string
}

func normalizeField(value string) string {
	return strings.TrimSpace(value)
}

package testfixtures

import (
	"time"

	"github.com/example/club-attendance/internal/persistence"
	"github.com/example/club-attendance/internal/persistence/memory"
)

const timestampLayout = "2006-01-02 15:04:05"

var referenceTime = time.Date(2024, time.June, 4, 18, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// MemberFixture is a row of the Members reference table.
type MemberFixture struct {
	Name  string
	Phone string
}

// DefaultMembers returns the member list used across check-in tests.
func DefaultMembers() []MemberFixture {
	return []MemberFixture{
		{Name: "Asha", Phone: "9876500000"},
		{Name: "Ravi", Phone: "9123400000"},
	}
}

// MemberRows renders members as a Members table including its header row.
func MemberRows(members ...MemberFixture) [][]string {
	rows := [][]string{{persistence.HeaderMemberName, persistence.HeaderMemberPhone}}
	for _, m := range members {
		rows = append(rows, []string{m.Name, m.Phone})
	}
	return rows
}

// NewStore returns an in-memory store with every table created. The Members
// table is seeded with the supplied members.
func NewStore(members ...MemberFixture) *memory.Storage {
	store := memory.New(persistence.Tables()...)
	store.Seed(persistence.TableMembers, MemberRows(members...))
	return store
}

// SeedMeetingCode writes a meeting code record expiring at expiry, formatted in loc.
func SeedMeetingCode(store *memory.Storage, code string, expiry time.Time, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	store.Seed(persistence.TableMeetingCode, [][]string{
		{persistence.HeaderMeetingCode, persistence.HeaderCodeExpiry},
		{code, expiry.In(loc).Format(timestampLayout)},
	})
}

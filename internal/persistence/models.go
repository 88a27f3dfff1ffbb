package persistence

// Table names of the attendance workbook.
const (
	TableMembers          = "Members"
	TableAttendance       = "Attendance"
	TableGuest            = "Guest"
	TableMeetingCode      = "MeetingCode"
	TableAttendanceMatrix = "Attendance_Member"
)

// Column headers used by the workbook tables.
const (
	HeaderMemberName  = "Name"
	HeaderMemberPhone = "Phone Number"
	HeaderMeetingCode = "Meeting Code"
	HeaderCodeExpiry  = "Expiry Timestamp"
	HeaderMatrixName  = "Name"
	HeaderMatrixPhone = "Phone"
)

// Tables lists every table the service expects to exist.
func Tables() []string {
	return []string{TableMembers, TableAttendance, TableGuest, TableMeetingCode, TableAttendanceMatrix}
}

// Records converts a header row followed by data rows into keyed records.
// Short rows are padded with empty strings and cells beyond the header are dropped.
func Records(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[key] = value
		}
		records = append(records, record)
	}
	return records
}

// CloneRows returns a deep copy of a grid.
func CloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

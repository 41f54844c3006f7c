package models

// Scan classifications returned by the attendance endpoint.
const (
	ScanCheckIn  = "check_in"
	ScanCheckOut = "check_out"
)

type ScanRequest struct {
	QRCode string `json:"qr_code"`
}

type ScanResult struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type AttendanceRecord struct {
	ID           string `json:"id"`
	MemberID     string `json:"member_id"`
	GymID        string `json:"gym_id"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Date         string `json:"date"`
}

func (r *AttendanceRecord) UnmarshalJSON(data []byte) error {
	type plain AttendanceRecord
	return decodeWithDocID(data, (*plain)(r), &r.ID)
}

// AttendanceStats is the manager's per-day overview.
type AttendanceStats struct {
	SelectedDate string             `json:"selected_date"`
	TodayCount   int                `json:"today_count"`
	WeekCount    int                `json:"week_count"`
	TodayRecords []AttendanceRecord `json:"today_records"`
}

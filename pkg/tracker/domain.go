package tracker

import (
	"math"
	"strconv"
)

// EntryType is the semantic category of a proposed time entry.
type EntryType string

const (
	EntryMeeting EntryType = "meeting"
	EntryLeave   EntryType = "leave"
	EntryOffice  EntryType = "office"
)

// TimeEntry is a ledger write that has not been persisted yet. Hours stay
// numeric inside the pipeline; they are serialized to the wire's string form
// only when the entry is submitted.
type TimeEntry struct {
	Date    string // yyyy-mm-dd
	Project string
	Task    string
	Hours   float64
	Note    string
	Type    EntryType
}

// ExistingReport is a ledger record read back from the tracker. It is owned
// by the remote system; the only mutation the client may request is deletion
// by ID.
type ExistingReport struct {
	ID       int     `json:"id"`
	Project  string  `json:"project"`
	Task     string  `json:"task"`
	Date     string  `json:"date"`
	Duration float64 `json:"duration"`
	Note     string  `json:"note"`
}

// DayReports is the tracker's answer for a single date.
type DayReports struct {
	Reports    []ExistingReport `json:"reports"`
	DayTotal   string           `json:"dayTotal"`
	MonthTotal string           `json:"monthTotal"`
}

type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// RoundHours rounds a duration in hours to 2 decimal places.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}

// FormatHours encodes hours for the tracker wire format: rounded to 2
// decimals, shortest decimal representation ("2", "2.25").
func FormatHours(hours float64) string {
	return strconv.FormatFloat(RoundHours(hours), 'f', -1, 64)
}

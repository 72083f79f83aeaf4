// Package model defines domain entities for the application.
package model

import "time"

// monthNames is the fixed English month-name table, indexed from 0 (January).
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// dateRangeFormat is the display format for derived date ranges.
const dateRangeFormat = "Jan 2, 2006"

// Memory represents a single user-owned travel journal entry.
type Memory struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PlaceName    string    `json:"placeName"`
	LocationLink string    `json:"locationLink,omitempty"`
	FromDate     time.Time `json:"fromDate"`
	ToDate       time.Time `json:"toDate"`
	Photo        string    `json:"photo"` // Base64 encoded image
	OwnerID      string    `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Year returns the calendar year of the start date.
// Derived on read, never stored.
func (m *Memory) Year() int {
	return m.FromDate.Year()
}

// Month returns the 0-based calendar month index of the start date.
func (m *Memory) Month() int {
	return int(m.FromDate.Month()) - 1
}

// MonthName returns the full English month name for the start date.
func (m *Memory) MonthName() string {
	return MonthNameFor(m.Month())
}

// DateRange returns the display string for the memory's date range.
// Collapses to a single date when the range covers one day.
func (m *Memory) DateRange() string {
	from := m.FromDate.Format(dateRangeFormat)
	if m.SameDay() {
		return from
	}
	return from + " - " + m.ToDate.Format(dateRangeFormat)
}

// SameDay reports whether the range starts and ends on the same calendar day.
func (m *Memory) SameDay() bool {
	fy, fm, fd := m.FromDate.Date()
	ty, tm, td := m.ToDate.Date()
	return fy == ty && fm == tm && fd == td
}

// MonthNameFor returns the English month name for a 0-based index.
// Returns an empty string for out-of-range indices.
func MonthNameFor(index int) string {
	if index < 0 || index > 11 {
		return ""
	}
	return monthNames[index]
}

package service

import (
	"strconv"

	"github.com/voyage/voyage/internal/model"
)

// MonthGroup is one month's bucket inside a grouped year.
type MonthGroup struct {
	Month     int             `json:"month"` // 0-based, January = 0
	MonthName string          `json:"monthName"`
	Memories  []*model.Memory `json:"memories"`
}

// GroupedMemories maps year (as a string) to month name to the bucket
// of memories whose start date falls in that month.
type GroupedMemories map[string]map[string]*MonthGroup

// GroupMemories builds the year-to-month grouped view of an already
// ordered slice. The input order is preserved inside each bucket; the
// input itself is never mutated, so grouping twice yields the same
// structure. Callers sort years and months for display.
func GroupMemories(memories []*model.Memory) GroupedMemories {
	grouped := make(GroupedMemories)

	for _, memory := range memories {
		year := strconv.Itoa(memory.Year())
		monthName := memory.MonthName()

		months, ok := grouped[year]
		if !ok {
			months = make(map[string]*MonthGroup)
			grouped[year] = months
		}

		bucket, ok := months[monthName]
		if !ok {
			bucket = &MonthGroup{
				Month:     memory.Month(),
				MonthName: monthName,
			}
			months[monthName] = bucket
		}

		bucket.Memories = append(bucket.Memories, memory)
	}

	return grouped
}

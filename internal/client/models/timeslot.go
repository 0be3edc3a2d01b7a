package models

import (
	"sort"
	"time"
)

type TimeSlotStatus string

const (
	SlotOffered  TimeSlotStatus = "offered"
	SlotAccepted TimeSlotStatus = "accepted"
	SlotExpired  TimeSlotStatus = "expired"
)

// TimeSlot is a window offered by the office for an inspection visit.
type TimeSlot struct {
	ID           string         `json:"id"`
	InspectionID string         `json:"inspection_id"`
	StartsAt     time.Time      `json:"starts_at"`
	EndsAt       time.Time      `json:"ends_at"`
	Status       TimeSlotStatus `json:"status"`
}

// GroupSlotsByDate buckets slots by calendar day (local time) and returns
// the days in ascending order alongside the grouped slots. Slots within a
// day are ordered by start time.
func GroupSlotsByDate(slots []TimeSlot) ([]string, map[string][]TimeSlot) {
	grouped := make(map[string][]TimeSlot)
	for _, s := range slots {
		day := s.StartsAt.Local().Format("2006-01-02")
		grouped[day] = append(grouped[day], s)
	}

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
		sort.Slice(grouped[day], func(i, j int) bool {
			return grouped[day][i].StartsAt.Before(grouped[day][j].StartsAt)
		})
	}
	sort.Strings(days)

	return days, grouped
}

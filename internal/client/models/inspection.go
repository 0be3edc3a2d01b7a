package models

import "time"

type InspectionStatus string

const (
	InspectionScheduled  InspectionStatus = "scheduled"
	InspectionInProgress InspectionStatus = "in_progress"
	InspectionCompleted  InspectionStatus = "completed"
	InspectionCancelled  InspectionStatus = "cancelled"
)

// Inspection is a scheduled visit backing an approved quote.
type Inspection struct {
	ID            string           `json:"id"`
	QuoteID       string           `json:"quote_id"`
	Address       string           `json:"address"`
	Status        InspectionStatus `json:"status"`
	ScheduledAt   time.Time        `json:"scheduled_at"`
	InspectorName string           `json:"inspector_name,omitempty"`
}

package models

import "encoding/json"

// Realtime event names pushed by the server. The payload shape is
// determined solely by the event name; the channel never inspects it.
const (
	EventNewQuote          = "new_quote"
	EventQuoteUpdated      = "quote_updated"
	EventNewInspection     = "new_inspection"
	EventInspectionUpdated = "inspection_updated"
	EventNewMessage        = "new_message"
	EventSlotOffer         = "slot_offer"
	EventSlotConfirmed     = "slot_confirmed"
	EventCalendarUpdated   = "calendar_updated"
)

// Envelope is a named realtime event with its raw payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/homequote/homequote/internal/client/models"
)

// Slots prints the offered time slots grouped by day.
func (a *App) Slots(ctx context.Context) error {
	slots, err := a.api.ListTimeSlots(ctx)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	if len(slots) == 0 {
		printlnFn("No time slots offered.")
		return nil
	}

	days, grouped := models.GroupSlotsByDate(slots)
	for _, day := range days {
		printlnFn(day + ":")
		for _, s := range grouped[day] {
			printlnFn(fmt.Sprintf("  %s  %s–%s (%s)", s.ID,
				s.StartsAt.Local().Format("15:04"), s.EndsAt.Local().Format("15:04"), s.Status))
		}
	}
	return nil
}

// Accept confirms a time slot. On success a calendar refresh signal is
// injected locally so the inspection cache catches up without waiting for
// the server push.
func (a *App) Accept(ctx context.Context, slotID string) error {
	if err := a.api.AcceptTimeSlot(ctx, slotID); err != nil {
		a.reportAuthError(err)
		return err
	}

	printlnFn("Slot confirmed.")
	a.channel.Emit(models.Envelope{
		Event:   models.EventCalendarUpdated,
		Payload: json.RawMessage(`{"slot_id":"` + slotID + `"}`),
	})
	return nil
}

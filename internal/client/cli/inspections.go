package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/models"
)

// Inspections fetches the inspection list, refreshes the cache, and prints
// it, falling back to the cache when the server is unreachable.
func (a *App) Inspections(ctx context.Context) error {
	list, err := a.api.ListInspections(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrNetwork) {
			a.reportAuthError(err)
			return err
		}
		printlnFn("Server unreachable, showing cached inspections.")
		list, err = a.repos.Inspections.List(ctx)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
	} else if err := a.repos.Inspections.ReplaceAll(ctx, list); err != nil {
		a.log.Warn(ctx, "failed to refresh inspections cache", "error", err)
	}

	if len(list) == 0 {
		printlnFn("No inspections scheduled.")
		return nil
	}
	for _, insp := range list {
		printlnFn(formatInspection(insp))
	}
	return nil
}

// refreshInspectionsCache is the realtime refresh action for inspection and
// calendar events.
func (a *App) refreshInspectionsCache(ctx context.Context) {
	list, err := a.api.ListInspections(ctx)
	if err != nil {
		a.log.Warn(ctx, "inspection refresh failed", "error", err)
		return
	}
	if err := a.repos.Inspections.ReplaceAll(ctx, list); err != nil {
		a.log.Warn(ctx, "failed to refresh inspections cache", "error", err)
	}
}

func formatInspection(i models.Inspection) string {
	s := fmt.Sprintf("%s  %-12s %s at %s", i.ID, i.Status, i.Address, i.ScheduledAt.Local().Format("2006-01-02 15:04"))
	if i.InspectorName != "" {
		s += " with " + i.InspectorName
	}
	return s
}

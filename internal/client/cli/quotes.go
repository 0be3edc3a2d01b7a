package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/models"
)

// Quotes fetches the quote list, refreshes the cache, and prints it. When
// the server is unreachable the last cached list is shown instead.
func (a *App) Quotes(ctx context.Context) error {
	list, err := a.api.ListQuotes(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrNetwork) {
			a.reportAuthError(err)
			return err
		}
		printlnFn("Server unreachable, showing cached quotes.")
		list, err = a.repos.Quotes.List(ctx)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
	} else if err := a.repos.Quotes.ReplaceAll(ctx, list); err != nil {
		a.log.Warn(ctx, "failed to refresh quotes cache", "error", err)
	}

	if len(list) == 0 {
		printlnFn("No quotes yet.")
		return nil
	}
	for _, q := range list {
		printlnFn(formatQuote(q))
	}
	return nil
}

// refreshQuotesCache silently refetches the quote list into the cache. It
// is the realtime refresh action for quote events.
func (a *App) refreshQuotesCache(ctx context.Context) {
	list, err := a.api.ListQuotes(ctx)
	if err != nil {
		a.log.Warn(ctx, "quote refresh failed", "error", err)
		return
	}
	if err := a.repos.Quotes.ReplaceAll(ctx, list); err != nil {
		a.log.Warn(ctx, "failed to refresh quotes cache", "error", err)
	}
}

func formatQuote(q models.Quote) string {
	amount := "not priced yet"
	if q.AmountCents > 0 {
		amount = fmt.Sprintf("$%d.%02d", q.AmountCents/100, q.AmountCents%100)
	}
	return fmt.Sprintf("%s  %-10s %s (%s)", q.ID, q.Status, q.Address, amount)
}

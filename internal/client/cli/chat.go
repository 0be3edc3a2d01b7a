package cli

import (
	"context"
	"fmt"
)

// Chats lists the user's conversations.
func (a *App) Chats(ctx context.Context) error {
	list, err := a.api.ListConversations(ctx)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	if len(list) == 0 {
		printlnFn("No conversations yet.")
		return nil
	}
	for _, c := range list {
		printlnFn(fmt.Sprintf("%s  %s (last activity %s)", c.ID, c.Subject, c.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

// Messages prints the messages of one conversation, oldest first.
func (a *App) Messages(ctx context.Context, conversationID string) error {
	list, err := a.api.ListMessages(ctx, conversationID)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	if len(list) == 0 {
		printlnFn("No messages in this conversation.")
		return nil
	}
	for _, m := range list {
		printlnFn(fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format("15:04"), m.SenderName, m.Text))
	}
	return nil
}

// Send posts a message into a conversation.
func (a *App) Send(ctx context.Context, conversationID, text string) error {
	msg, err := a.api.SendMessage(ctx, conversationID, text)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	printlnFn("Sent at " + msg.CreatedAt.Local().Format("15:04") + ".")
	return nil
}

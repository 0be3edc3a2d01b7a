package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Consent(ctx context.Context) error
	Profile(ctx context.Context) error
	Quotes(ctx context.Context) error
	Inspections(ctx context.Context) error
	Chats(ctx context.Context) error
	Messages(ctx context.Context, conversationID string) error
	Send(ctx context.Context, conversationID, text string) error
	Slots(ctx context.Context) error
	Accept(ctx context.Context, slotID string) error
}

// runREPL starts a read–eval–print loop for the HomeQuote client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hq %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (q)uotes, (i)nspections, chats, messages <id>, send <id> <text>, slots, accept <id>, whoami, profile, consent, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "consent":
			_ = a.Consent(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "q", "quotes":
			_ = a.Quotes(ctx)

		case "i", "inspections":
			_ = a.Inspections(ctx)

		case "chats":
			_ = a.Chats(ctx)

		case "messages":
			if len(args) == 0 {
				printlnFn("Usage: messages <conversation-id>")
				continue
			}
			_ = a.Messages(ctx, args[0])

		case "send":
			if len(args) < 2 {
				printlnFn("Usage: send <conversation-id> <text>")
				continue
			}
			_ = a.Send(ctx, args[0], strings.Join(args[1:], " "))

		case "slots":
			_ = a.Slots(ctx)

		case "accept":
			if len(args) == 0 {
				printlnFn("Usage: accept <slot-id>")
				continue
			}
			_ = a.Accept(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

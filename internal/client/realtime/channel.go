// Package realtime maintains the single authenticated server-push
// connection and routes named events to registered handlers. It is a pure
// dispatcher: payloads are opaque and every consumer validates only the
// fields it expects.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/logging"
)

// Handler receives the raw payload of one event envelope.
type Handler func(payload json.RawMessage)

// Subscription identifies one registered handler. Removal is by identity,
// so independent screens can add and remove handlers for the same event
// without affecting each other.
type Subscription struct {
	event string
	id    int
}

// State of the connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// Conn is one established duplex connection, as the channel sees it.
type Conn interface {
	// ReadEnvelope blocks until the next envelope arrives or the
	// connection fails.
	ReadEnvelope() (*models.Envelope, error)
	Close() error
}

// Dialer opens connections. The production implementation wraps a
// websocket; tests script their own.
type Dialer interface {
	Dial(ctx context.Context, url, token string) (Conn, error)
}

type registration struct {
	id int
	fn Handler
}

// Channel multiplexes named events over one connection.
//
// Connection failures are never surfaced to callers: realtime updates are
// a convenience layer and screens stay functional without them. Reconnect
// attempts are bounded; once the budget is spent the channel stays quiet.
type Channel struct {
	url      string
	dialer   Dialer
	log      logging.Logger
	attempts uint64
	delay    time.Duration

	mu       sync.Mutex
	state    State
	conn     Conn
	cancel   context.CancelFunc
	gen      int
	nextID   int
	handlers map[string][]registration
}

func New(url string, dialer Dialer, log logging.Logger, attempts uint64, delay time.Duration) *Channel {
	return &Channel{
		url:      url,
		dialer:   dialer,
		log:      log.With("component", "realtime"),
		attempts: attempts,
		delay:    delay,
		handlers: make(map[string][]registration),
	}
}

// Connect starts the connection using token for the handshake. It is
// fire-and-forget: the eventual state is observable via IsConnected or
// the incoming events themselves. Calling Connect while a connection is
// live or being established is a no-op.
func (c *Channel) Connect(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.url == "" {
		c.log.Warn(context.Background(), "no realtime endpoint configured, running without push updates")
		return
	}
	if c.state != StateDisconnected {
		return
	}

	c.state = StateConnecting
	c.gen++

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go c.run(ctx, token, c.gen)
}

// run drives dial/read cycles for one Connect call. gen ties the goroutine
// to its Connect generation so a stale cycle never mutates state owned by
// a newer one.
func (c *Channel) run(ctx context.Context, token string, gen int) {
	for {
		conn, err := c.dial(ctx, token)
		if err != nil {
			c.log.Warn(ctx, "realtime connection given up", "error", err)
			c.settle(gen, StateDisconnected)
			return
		}

		if !c.attach(gen, conn) {
			_ = conn.Close()
			return
		}
		c.log.Info(ctx, "realtime connected")

		c.readLoop(conn)

		if ctx.Err() != nil || !c.settle(gen, StateConnecting) {
			return
		}
		c.log.Warn(ctx, "realtime connection lost, reconnecting")
	}
}

// dial attempts the connection with a fixed delay between attempts and a
// fixed attempt budget. Unbounded retry is deliberately rejected: a device
// with no connectivity should not poll forever.
func (c *Channel) dial(ctx context.Context, token string) (Conn, error) {
	var conn Conn
	backoff := retry.WithMaxRetries(c.attempts, retry.NewConstant(c.delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		cn, err := c.dialer.Dial(ctx, c.url, token)
		if err != nil {
			c.log.Debug(ctx, "realtime dial failed", "error", err)
			return retry.RetryableError(err)
		}
		conn = cn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// attach records conn as the live connection if gen is still current.
func (c *Channel) attach(gen int, conn Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.conn = conn
	c.state = StateConnected
	return true
}

// settle moves the channel into next if gen is still current and reports
// whether it was.
func (c *Channel) settle(gen int, next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.conn = nil
	c.state = next
	return true
}

func (c *Channel) readLoop(conn Conn) {
	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			return
		}
		c.dispatch(*env)
	}
}

// Emit injects an envelope as if it had arrived over the connection.
// Screens use it to synthesize a refresh signal after a local mutation;
// tests use it to drive dispatch without a connection.
func (c *Channel) Emit(env models.Envelope) {
	c.dispatch(env)
}

// dispatch invokes every handler registered for the envelope's event, in
// registration order. A panicking handler is logged and must not stop its
// siblings.
func (c *Channel) dispatch(env models.Envelope) {
	c.mu.Lock()
	regs := make([]registration, len(c.handlers[env.Event]))
	copy(regs, c.handlers[env.Event])
	c.mu.Unlock()

	for _, reg := range regs {
		c.invoke(env, reg)
	}
}

func (c *Channel) invoke(env models.Envelope, reg registration) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Error(context.Background(), "realtime handler panicked", "event", env.Event, "panic", p)
		}
	}()
	reg.fn(env.Payload)
}

// On registers a handler for the named event. Multiple handlers per event
// are independent; they fire in registration order.
func (c *Channel) On(event string, fn Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	c.handlers[event] = append(c.handlers[event], registration{id: c.nextID, fn: fn})
	return Subscription{event: event, id: c.nextID}
}

// Off removes the handler identified by sub. Other handlers for the same
// event are untouched.
func (c *Channel) Off(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	regs := c.handlers[sub.event]
	for i, reg := range regs {
		if reg.id == sub.id {
			c.handlers[sub.event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Disconnect tears the connection down and clears every registered
// handler: handlers are scoped to a connection's lifetime, and a later
// reconnect requires each screen to register again. This keeps stale
// closures from firing against a new connection.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.handlers = make(map[string][]registration)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// IsConnected reports whether the connection is currently established.
func (c *Channel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected
}

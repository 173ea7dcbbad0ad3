package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"varibulk/pkg/logger"
)

// AttributeChannel is the NOTIFY channel raised by the attribute triggers.
// The payload is the attribute name.
const AttributeChannel = "item_attribute_changed"

// Handler is called for every notification received.
type Handler func(channel, payload string)

// Listener holds a dedicated connection in LISTEN mode and dispatches
// notifications to registered handlers. It reconnects after failures.
type Listener struct {
	pool     *pgxpool.Pool
	channels []string

	handlersMu sync.RWMutex
	handlers   []Handler

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewListener creates a listener for channels.
func NewListener(pool *pgxpool.Pool, channels ...string) *Listener {
	return &Listener{pool: pool, channels: channels}
}

// OnNotify registers a handler.
func (l *Listener) OnNotify(h Handler) {
	l.handlersMu.Lock()
	l.handlers = append(l.handlers, h)
	l.handlersMu.Unlock()
}

// Start begins listening in the background.
func (l *Listener) Start(ctx context.Context) {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.loop()
	logger.Info(ctx, "notification listener started", "channels", l.channels)
}

// Stop cancels the listener and waits for it to exit.
func (l *Listener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.lifecycleMu.Unlock()

	cancel()
	l.wg.Wait()
	logger.Info(context.Background(), "notification listener stopped")
}

func (l *Listener) loop() {
	defer l.wg.Done()

	for l.ctx.Err() == nil {
		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
			l.pause()
			continue
		}

		if _, err := conn.Exec(l.ctx, listenSQL(l.channels)); err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			l.pause()
			continue
		}

		l.wait(conn)
		conn.Release()

		// Anything cached may be stale after a dropped connection
		l.dispatch("", "")
	}
}

func (l *Listener) wait(conn *pgxpool.Conn) {
	for {
		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		n, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			if pgconn.Timeout(err) {
				continue
			}
			logger.Warn(l.ctx, "LISTEN connection lost", "error", err)
			return
		}

		logger.Debug(l.ctx, "received notification", "channel", n.Channel, "payload", n.Payload)
		l.dispatch(n.Channel, n.Payload)
	}
}

func (l *Listener) dispatch(channel, payload string) {
	l.handlersMu.RLock()
	defer l.handlersMu.RUnlock()

	for _, h := range l.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(l.ctx, "notification handler panic recovered", "channel", channel, "panic", r)
				}
			}()
			h(channel, payload)
		}()
	}
}

func (l *Listener) pause() {
	select {
	case <-l.ctx.Done():
	case <-time.After(time.Second):
	}
}

func listenSQL(channels []string) string {
	var b strings.Builder
	for _, ch := range channels {
		b.WriteString("LISTEN ")
		b.WriteString(ch)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// InvalidateOn returns a handler that drops the named attribute from c on
// AttributeChannel notifications, and everything on reconnect.
func InvalidateOn(c *AttributeCache) Handler {
	return func(channel, payload string) {
		switch channel {
		case AttributeChannel:
			c.Invalidate(strings.TrimSpace(payload))
		case "":
			c.Invalidate("")
		}
	}
}

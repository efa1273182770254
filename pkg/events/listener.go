package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// PolicyChangeHandler is called for every policy change notification.
type PolicyChangeHandler func(ctx context.Context, payload PolicyChangedPayload)

// NotifyListener listens for policy change notifications on a dedicated
// PostgreSQL connection and dispatches them to a handler.
type NotifyListener struct {
	connString string
	channel    string
	handler    PolicyChangeHandler

	conn   *pgx.Conn // Dedicated connection for LISTEN, owned by the receive loop
	connMu sync.Mutex

	// cancelLoop and loopDone coordinate graceful shutdown of the receive loop.
	cancelLoop context.CancelFunc
	loopDone   chan struct{}
}

// NewNotifyListener creates a new PostgreSQL NOTIFY listener.
func NewNotifyListener(connString, channel string, handler PolicyChangeHandler) *NotifyListener {
	return &NotifyListener{
		connString: connString,
		channel:    channel,
		handler:    handler,
	}
}

// Start establishes the dedicated LISTEN connection and begins receiving notifications.
func (l *NotifyListener) Start(ctx context.Context) error {
	conn, err := l.connect(ctx)
	if err != nil {
		return err
	}

	l.connMu.Lock()
	l.conn = conn
	l.connMu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	l.cancelLoop = cancel
	l.loopDone = make(chan struct{})
	go func() {
		defer close(l.loopDone)
		l.receiveLoop(loopCtx)
	}()

	slog.Info("NotifyListener started", "channel", l.channel)
	return nil
}

func (l *NotifyListener) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect for LISTEN: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("LISTEN %s failed: %w", l.channel, err)
	}
	return conn, nil
}

// receiveLoop receives notifications until ctx is cancelled.
func (l *NotifyListener) receiveLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		l.connMu.Lock()
		conn := l.conn
		l.connMu.Unlock()

		if conn == nil {
			l.reconnect(ctx)
			continue
		}

		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("NOTIFY receive error", "channel", l.channel, "error", err)
			l.reconnect(ctx)
			continue
		}

		var payload PolicyChangedPayload
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
			slog.Warn("Ignoring malformed policy notification", "channel", notification.Channel, "error", err)
			continue
		}
		l.handler(ctx, payload)
	}
}

// reconnect re-establishes the LISTEN connection with exponential backoff.
func (l *NotifyListener) reconnect(ctx context.Context) {
	l.connMu.Lock()
	defer l.connMu.Unlock()

	if l.conn != nil {
		_ = l.conn.Close(ctx)
		l.conn = nil
	}

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		conn, err := l.connect(ctx)
		if err != nil {
			slog.Error("LISTEN reconnect failed", "error", err, "backoff", backoff)
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		l.conn = conn
		slog.Info("NotifyListener reconnected", "channel", l.channel)
		return
	}
}

// Stop signals the receive loop to exit, waits for it to finish,
// then closes the LISTEN connection.
func (l *NotifyListener) Stop(ctx context.Context) {
	if l.cancelLoop != nil {
		l.cancelLoop()
	}
	if l.loopDone != nil {
		<-l.loopDone
	}

	l.connMu.Lock()
	defer l.connMu.Unlock()
	if l.conn != nil {
		_ = l.conn.Close(ctx)
		l.conn = nil
	}
}

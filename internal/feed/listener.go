package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"mentorlink/internal/logging"
)

// pgxConn is the subset of *pgx.Conn the listener uses.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// pgxConnect is a seam for testing the listener without a live database.
var pgxConnect = func(ctx context.Context, dsn string) (pgxConn, error) {
	return pgx.Connect(ctx, dsn)
}

// Listener holds a dedicated PostgreSQL connection on LISTEN and publishes
// every decoded notification to the hub. LISTEN/NOTIFY requires a native pgx
// connection; the pooled database/sql handle cannot wait for notifications.
type Listener struct {
	dsn     string
	channel string
	hub     *Hub
	log     *logging.Logger
	metrics *Metrics

	backoffBase time.Duration
	backoffCap  time.Duration
}

// NewListener creates a listener for the given channel.
func NewListener(dsn, channel string, hub *Hub, log *logging.Logger, metrics *Metrics) *Listener {
	return &Listener{
		dsn:         dsn,
		channel:     channel,
		hub:         hub,
		log:         log,
		metrics:     metrics,
		backoffBase: time.Second,
		backoffCap:  30 * time.Second,
	}
}

// Run listens until the context is cancelled, reconnecting with capped
// fibonacci backoff whenever the connection drops. Cancellation is a clean
// shutdown, not an error.
func (l *Listener) Run(ctx context.Context) error {
	backoff := retry.WithCappedDuration(l.backoffCap, retry.NewFibonacci(l.backoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			l.log.Warn(ctx, "feed connection lost, reconnecting", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// listen dials, subscribes to the channel, and blocks delivering
// notifications until the connection or the context fails.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgxConnect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}
	l.log.Info(ctx, "document feed listening", zap.String("channel", l.channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.handle(ctx, n.Payload)
	}
}

// handle decodes one payload and publishes it. Malformed payloads are counted
// and dropped; they must not take the listener down.
func (l *Listener) handle(ctx context.Context, payload string) {
	ev, err := DecodeEvent([]byte(payload))
	if err != nil {
		l.metrics.invalidPayloads.Inc()
		l.log.Warn(ctx, "dropping malformed feed payload", zap.Error(err))
		return
	}

	l.metrics.events.WithLabelValues(string(ev.Op)).Inc()
	l.hub.Publish(ev)
}

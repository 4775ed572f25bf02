package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "MacroBot/internal/domain/repository"
	applogger "MacroBot/pkg/logger"
)

const notifyLockKey = "job:notify"

// ChangeNotifier runs one notification cycle: scan, render, push.
type ChangeNotifier struct {
	scanner   *UpdateScanner
	messenger drepo.Messenger
	locker    drepo.Locker
	recipient string
	lockTTL   time.Duration
	metrics   drepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
}

type NotifierOption func(*ChangeNotifier)

// WithNotifierLock skips the cycle while another holds the job lock.
func WithNotifierLock(locker drepo.Locker, ttl time.Duration) NotifierOption {
	return func(n *ChangeNotifier) {
		n.locker = locker
		n.lockTTL = ttl
	}
}

func WithNotifierClock(now func() time.Time) NotifierOption {
	return func(n *ChangeNotifier) { n.now = now }
}

func NewChangeNotifier(scanner *UpdateScanner, messenger drepo.Messenger, recipient string, metrics drepo.Metrics, l *applogger.Logger, opts ...NotifierOption) *ChangeNotifier {
	n := &ChangeNotifier{
		scanner:   scanner,
		messenger: messenger,
		recipient: recipient,
		metrics:   metrics,
		l:         l.With(applogger.String("component", "notifier")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run returns the number of changes pushed. Zero with a nil error means
// nothing changed or another run holds the lock.
func (n *ChangeNotifier) Run(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { n.metrics.RecordLatency("notify", time.Since(start).Seconds()) }()

	if n.locker != nil {
		token, ok, err := n.locker.TryLock(ctx, notifyLockKey, n.lockTTL)
		if err != nil {
			n.l.Error("notify lock failed", applogger.Error(err))
			n.metrics.RecordNotification("failed")
			return 0, fmt.Errorf("notify lock: %w", err)
		}
		if !ok {
			n.l.Info("notify already running, skipping")
			n.metrics.RecordNotification("skipped")
			return 0, nil
		}
		defer func() {
			if err := n.locker.Unlock(context.WithoutCancel(ctx), notifyLockKey, token); err != nil {
				n.l.Warn("notify unlock failed", applogger.Error(err))
			}
		}()
	}

	changes, err := n.scanner.Scan(ctx, n.now())
	if err != nil {
		n.l.Error("update scan failed", applogger.Error(err))
		n.metrics.RecordError("store")
		n.metrics.RecordNotification("failed")
		return 0, fmt.Errorf("scan: %w", err)
	}
	if len(changes) == 0 {
		n.l.Info("no new data in window")
		n.metrics.RecordNotification("skipped")
		return 0, nil
	}

	if err := n.messenger.Push(ctx, n.recipient, RenderDigest(changes, n.scanner.Window())); err != nil {
		n.l.Error("digest push failed", applogger.Int("changes", len(changes)), applogger.Error(err))
		n.metrics.RecordError("push")
		n.metrics.RecordNotification("failed")
		return 0, fmt.Errorf("push digest: %w", err)
	}

	n.l.Info("digest sent", applogger.Int("changes", len(changes)))
	n.metrics.RecordNotification("sent")
	return len(changes), nil
}

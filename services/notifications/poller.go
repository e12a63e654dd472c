package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/campus-events/client-go/common/logger"
)

// Poller refreshes the unread count on a fixed interval for as long as a
// session is active. It is tied to a context: cancelling the context (or
// calling Stop) tears the timer down — the poller must never outlive a
// logout.
type Poller struct {
	svc      *Service
	interval time.Duration
	onCount  func(int)
	log      *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewPoller creates a poller delivering counts to onCount. The callback
// runs on the poller goroutine; keep it quick.
func NewPoller(svc *Service, interval time.Duration, onCount func(int), log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Default()
	}
	return &Poller{svc: svc, interval: interval, onCount: onCount, log: log}
}

// Start launches the poll loop. The first refresh happens immediately,
// then every interval. Starting an already-running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refresh(ctx)
		case <-ctx.Done():
			p.log.Debug("notification poller stopped")
			return
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	count, err := p.svc.UnreadCount(ctx)
	if err != nil {
		// A failed poll leaves the previous badge value alone; the
		// next tick retries
		p.log.WithError(err).Debug("unread-count poll failed")
		return
	}
	if p.onCount != nil {
		p.onCount(count)
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call twice and
// safe to call on a never-started poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

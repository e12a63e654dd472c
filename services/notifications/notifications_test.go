package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/config"
	"github.com/campus-events/client-go/common/logger"
	"github.com/campus-events/client-go/models"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.FATAL, Output: discard{}, TimeFormat: time.RFC3339})
}

func newService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.ClientConfig{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}
	return NewService(api.New(cfg, api.StaticToken("tok"), quietLogger()))
}

func TestList(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"notifications": []models.Notification{
				{
					ID: "n1", Title: "Waitlist promotion",
					RelatedEvent: &models.RelatedEvent{ID: "e1", Title: "Tech Talk"},
				},
			},
		})
	}))

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].RelatedEvent.Title != "Tech Talk" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestMarkRead(t *testing.T) {
	var gotPath string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))

	if err := svc.MarkRead(context.Background(), "n1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if gotPath != "PUT /api/notifications/n1/read" {
		t.Errorf("call = %q", gotPath)
	}
}

// ============================================================
// Test: the poller refreshes immediately and stops cleanly
// ============================================================

func TestPollerDeliversAndStops(t *testing.T) {
	var polls int32
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&polls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "count": 7})
	}))

	counts := make(chan int, 16)
	poller := NewPoller(svc, 20*time.Millisecond, func(c int) { counts <- c }, quietLogger())
	poller.Start(context.Background())

	select {
	case c := <-counts:
		if c != 7 {
			t.Errorf("count = %d, want 7", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no immediate refresh")
	}

	// At least one ticker-driven refresh
	select {
	case <-counts:
	case <-time.After(time.Second):
		t.Fatal("no periodic refresh")
	}

	poller.Stop()
	settled := atomic.LoadInt32(&polls)
	time.Sleep(80 * time.Millisecond)
	if after := atomic.LoadInt32(&polls); after != settled {
		t.Errorf("poller kept polling after Stop: %d -> %d", settled, after)
	}

	// Stop is idempotent
	poller.Stop()
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	var polls int32
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&polls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "count": 1})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(svc, 20*time.Millisecond, nil, quietLogger())
	poller.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	settled := atomic.LoadInt32(&polls)
	time.Sleep(80 * time.Millisecond)
	if after := atomic.LoadInt32(&polls); after != settled {
		t.Errorf("poller leaked past context cancel: %d -> %d", settled, after)
	}
}

func TestPollerSwallowsErrors(t *testing.T) {
	var polls int32
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&polls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	delivered := int32(0)
	poller := NewPoller(svc, 20*time.Millisecond, func(int) { atomic.AddInt32(&delivered, 1) }, quietLogger())
	poller.Start(context.Background())
	defer poller.Stop()

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&polls) < 2 {
		t.Error("failed polls should keep retrying on the next tick")
	}
	if atomic.LoadInt32(&delivered) != 0 {
		t.Error("failed polls must not deliver counts")
	}
}

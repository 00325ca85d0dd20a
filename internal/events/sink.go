// Package events delivers progression events (xp awards, unlocks, blocks) to
// best-effort sinks. Delivery is fire-and-forget: a slow or failing sink is
// dropped, never propagated to the caller.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// NotifyTimeout bounds one delivery attempt.
const NotifyTimeout = 2 * time.Second

type Event struct {
	Type       string         `json:"type"`
	SessionKey string         `json:"session_key"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

type Sink interface {
	Notify(ctx context.Context, ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(context.Context, Event) {}

// LogSink writes events to the structured log.
type LogSink struct {
	Log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{Log: log}
}

func (s *LogSink) Notify(_ context.Context, ev Event) {
	s.Log.Info("event",
		zap.String("type", ev.Type),
		zap.String("session", ev.SessionKey),
		zap.Any("payload", ev.Payload))
}

// WebhookSink POSTs events as JSON to a dashboard endpoint. Failures are
// counted and dropped.
type WebhookSink struct {
	url     string
	client  *http.Client
	log     *zap.Logger
	dropped atomic.Uint64
}

func NewWebhookSink(url string, log *zap.Logger) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: NotifyTimeout},
		log:    log,
	}
}

func (s *WebhookSink) Notify(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		s.dropped.Add(1)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.dropped.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.dropped.Add(1)
		s.log.Debug("webhook event dropped", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.dropped.Add(1)
		s.log.Debug("webhook event rejected", zap.Int("status", resp.StatusCode))
	}
}

// Dropped reports how many events this sink failed to deliver.
func (s *WebhookSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Fanout delivers each event to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, ev Event) {
	for _, s := range f {
		s.Notify(ctx, ev)
	}
}

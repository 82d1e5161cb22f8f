package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/logger"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/metrics"
)

const (
	targetGeneric = "generic"
	targetDiscord = "discord"
)

// Service fans order events out to the configured webhook endpoints. Every
// delivery runs on its own goroutine with a timeout-bounded context detached
// from the originating request; failures are counted and logged, never
// retried, and never surface to the caller.
type Service struct {
	cfg     config.WebhooksConfig
	client  *http.Client
	log     *logger.Logger
	metrics *metrics.WebhookMetrics

	wg sync.WaitGroup
}

// NewService builds the notifier. Metrics may be nil in tests.
func NewService(cfg config.WebhooksConfig, log *logger.Logger, m *metrics.WebhookMetrics) *Service {
	return &Service{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log,
		metrics: m,
	}
}

// Enabled reports whether at least one endpoint is configured.
func (s *Service) Enabled() bool {
	return s.cfg.GenericURL != "" || s.cfg.DiscordURL != ""
}

// OrderCreated fires the checkout webhooks.
func (s *Service) OrderCreated(order *models.Order) {
	s.dispatch(EventOrderCreated, order, "")
}

// OrderStatusChanged fires the transition webhooks.
func (s *Service) OrderStatusChanged(order *models.Order, previous enums.OrderStatus) {
	s.dispatch(EventOrderStatusChanged, order, previous)
}

func (s *Service) dispatch(event string, order *models.Order, previous enums.OrderStatus) {
	if order == nil {
		return
	}
	if s.cfg.GenericURL != "" {
		s.deliverAsync(targetGeneric, s.cfg.GenericURL, event, buildGenericPayload(event, order, previous))
	}
	if s.cfg.DiscordURL != "" {
		s.deliverAsync(targetDiscord, s.cfg.DiscordURL, event, buildDiscordPayload(event, order, previous))
	}
}

func (s *Service) deliverAsync(target, url, event string, payload any) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(target, url, event, payload)
	}()
}

func (s *Service) deliver(target, url, event string, payload any) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	ctx = s.log.WithFields(ctx, map[string]any{"target": target, "event": event})

	body, err := json.Marshal(payload)
	if err != nil {
		s.fail(ctx, target, err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		s.fail(ctx, target, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", event)

	resp, err := s.client.Do(req)
	if err != nil {
		s.fail(ctx, target, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.fail(ctx, target, fmt.Errorf("webhook endpoint returned %s", resp.Status))
		return
	}
	s.metrics.IncDelivered(target)
}

func (s *Service) fail(ctx context.Context, target string, err error) {
	s.metrics.IncFailed(target)
	s.log.Error(ctx, "webhook delivery failed", err)
}

// Wait blocks until in-flight deliveries finish. Called on shutdown and by
// tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/shared/metrics"
)

// Service queues and delivers outbound notifications through per-channel
// providers. Enqueue never blocks a request: a full buffer drops the message
// with a log line, matching the fire-and-forget contract.
type Service struct {
	emailProvider    Provider
	whatsappProvider Provider

	mu    sync.RWMutex
	stats Stats

	msgCh   chan *Message
	workers int

	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	config ServiceConfig
	log    *zap.Logger
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Workers       int
	BufferSize    int
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Workers:       4,
		BufferSize:    1000,
		RetryAttempts: 3,
		RetryDelay:    30 * time.Second,
	}
}

// NewService creates a new notification service
func NewService(emailProvider, whatsappProvider Provider, config ServiceConfig, log *zap.Logger) *Service {
	if config.Workers <= 0 {
		config.Workers = DefaultServiceConfig().Workers
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultServiceConfig().BufferSize
	}
	return &Service{
		emailProvider:    emailProvider,
		whatsappProvider: whatsappProvider,
		stats:            Stats{ByChannel: make(map[Channel]int64)},
		msgCh:            make(chan *Message, config.BufferSize),
		workers:          config.Workers,
		stopCh:           make(chan struct{}),
		config:           config,
		log:              log,
	}
}

// Start starts the delivery workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("service already started")
	}
	s.started = true
	s.mu.Unlock()

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	return nil
}

// Stop stops the delivery workers.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("service not started")
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	return nil
}

// Enqueue submits a message for delivery. Best-effort: a full buffer drops
// the message instead of blocking the caller.
func (s *Service) Enqueue(msg *Message) {
	if msg.ID == "" {
		msg.ID = generateMessageID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.Status = StatusPending

	select {
	case s.msgCh <- msg:
	default:
		s.log.Warn("notification buffer full, dropping message",
			zap.String("id", msg.ID),
			zap.String("channel", string(msg.Channel)))
		s.record(msg.Channel, false)
	}
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case msg := <-s.msgCh:
			s.deliver(ctx, msg)
		}
	}
}

func (s *Service) deliver(ctx context.Context, msg *Message) {
	var err error
	switch msg.Channel {
	case ChannelEmail:
		if s.emailProvider != nil {
			err = s.emailProvider.Send(ctx, msg)
		} else {
			err = fmt.Errorf("email provider not configured")
		}
	case ChannelWhatsApp:
		if s.whatsappProvider != nil {
			err = s.whatsappProvider.Send(ctx, msg)
		} else {
			err = fmt.Errorf("whatsapp provider not configured")
		}
	default:
		err = fmt.Errorf("unknown channel: %s", msg.Channel)
	}

	if err != nil {
		msg.ErrorMessage = err.Error()
		msg.RetryCount++
		now := time.Now()
		msg.LastRetryAt = &now

		if msg.RetryCount >= s.config.RetryAttempts {
			msg.Status = StatusFailed
			s.record(msg.Channel, false)
			s.log.Warn("notification delivery failed",
				zap.String("id", msg.ID),
				zap.String("channel", string(msg.Channel)),
				zap.Error(err))
			return
		}

		go func() {
			time.Sleep(s.config.RetryDelay)
			select {
			case s.msgCh <- msg:
			default:
			}
		}()
		return
	}

	now := time.Now()
	msg.SentAt = &now
	msg.Status = StatusSent
	s.record(msg.Channel, true)
}

func (s *Service) record(ch Channel, ok bool) {
	s.mu.Lock()
	if ok {
		s.stats.TotalSent++
	} else {
		s.stats.TotalFailed++
	}
	s.stats.ByChannel[ch]++
	s.mu.Unlock()

	metrics.RecordNotification(string(ch), ok)
}

// GetStats returns delivery statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Stats{
		TotalSent:   s.stats.TotalSent,
		TotalFailed: s.stats.TotalFailed,
		ByChannel:   make(map[Channel]int64, len(s.stats.ByChannel)),
	}
	for k, v := range s.stats.ByChannel {
		out.ByChannel[k] = v
	}
	return out
}

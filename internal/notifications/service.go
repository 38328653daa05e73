package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"skybook/internal/shared/config"
	"skybook/pkg/logger"
	"skybook/pkg/metrics"
)

// Service owns the booking event publisher and, when Kafka is enabled, the
// consumer that turns events into emails.
type Service struct {
	publisher Publisher
	consumer  *Consumer
	log       *logger.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewService builds the pipeline from config. With Kafka disabled it returns a
// service whose publisher drops events.
func NewService(cfg *config.Config) (*Service, error) {
	log := logger.GetDefault().WithComponent("notifications")
	if !cfg.Kafka.Enabled {
		log.Info("Kafka disabled, booking events will not be published")
		return &Service{publisher: NoopPublisher{}, log: log}, nil
	}

	publisher, err := NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.BookingTopic)
	if err != nil {
		return nil, err
	}

	var mailer Mailer = NewLogMailer(log)
	if cfg.EmailEnabled() {
		smtpMailer, err := NewSMTPMailer(SMTPConfigFrom(cfg.Email))
		if err != nil {
			publisher.Close()
			return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
		}
		mailer = smtpMailer
	}

	consumer, err := NewConsumer(ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.ConsumerGroupID,
		Topic:      cfg.Kafka.BookingTopic,
		Workers:    cfg.Kafka.ConsumerWorkers,
		MaxRetries: 3,
	}, mailer)
	if err != nil {
		publisher.Close()
		return nil, err
	}

	return &Service{publisher: publisher, consumer: consumer, log: log}, nil
}

// NewServiceWith assembles a service from prebuilt parts
func NewServiceWith(publisher Publisher, consumer *Consumer) *Service {
	return &Service{
		publisher: publisher,
		consumer:  consumer,
		log:       logger.GetDefault().WithComponent("notifications"),
	}
}

func (s *Service) Publisher() Publisher {
	return s.publisher
}

// SetMetrics forwards delivery metrics to the consumer, if there is one
func (s *Service) SetMetrics(m *metrics.Metrics) {
	if s.consumer != nil {
		s.consumer.SetMetrics(m)
	}
}

// Start runs the consumer in the background
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning || s.consumer == nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.consumer.Start(ctx)
	s.isRunning = true
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.isRunning {
		s.cancel()
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
		s.isRunning = false
	}
	if err := s.publisher.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		s.log.Error("notification service stopped with error", slog.Any("error", firstErr))
	}
	return firstErr
}

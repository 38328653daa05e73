package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"skybook/pkg/logger"
	"skybook/pkg/metrics"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Consumer reads booking events from a consumer group and mails them
type Consumer struct {
	group   sarama.ConsumerGroup
	config  ConsumerConfig
	mailer  Mailer
	log     *logger.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewConsumer(cfg ConsumerConfig, mailer Mailer) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return newConsumer(group, cfg, mailer), nil
}

func newConsumer(group sarama.ConsumerGroup, cfg ConsumerConfig, mailer Mailer) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Consumer{
		group:  group,
		config: cfg,
		mailer: mailer,
		log:    logger.GetDefault().WithComponent("booking-consumer"),
	}
}

// SetMetrics enables delivery counters
func (c *Consumer) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// Start launches the workers; they run until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", slog.Any("error", err))
		}
	}()

	for i := 0; i < c.config.Workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
	c.log.Info("booking event consumers started",
		slog.Int("workers", c.config.Workers),
		slog.String("topic", c.config.Topic),
	)
}

func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{consumer: c, workerID: workerID}
	for {
		if err := c.group.Consume(ctx, []string{c.config.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Warn("consume failed", slog.Int("worker", workerID), slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Stop closes the consumer group and waits for the workers
func (c *Consumer) Stop() error {
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// HandleMessage decodes one record and mails it, retrying with exponential backoff
func (c *Consumer) HandleMessage(ctx context.Context, value []byte) error {
	var event BookingEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking event: %w", err)
	}

	start := time.Now()
	err := c.deliver(ctx, &event)
	if c.metrics != nil {
		c.metrics.EmailTime.Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			c.metrics.EmailsSent.Inc()
		case !errors.Is(err, ErrNoRecipient):
			c.metrics.ErrorsCount.WithLabelValues("send_booking_email").Inc()
		}
	}
	return err
}

func (c *Consumer) deliver(ctx context.Context, event *BookingEvent) error {
	var err error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err = c.mailer.Send(ctx, event); err == nil || errors.Is(err, ErrNoRecipient) {
			return err
		}
		if attempt == c.config.MaxRetries {
			break
		}

		delay := c.config.RetryBackoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

type groupHandler struct {
	consumer *Consumer
	workerID int
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.consumer.HandleMessage(session.Context(), message.Value); err != nil {
				// Undeliverable events are logged and skipped so the partition keeps moving
				h.consumer.log.Error("failed to process booking event",
					slog.Int("worker", h.workerID),
					slog.Int64("offset", message.Offset),
					slog.Any("error", err),
				)
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

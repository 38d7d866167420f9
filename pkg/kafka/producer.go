package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/multierr"

	"github.com/foguel/delivery-backend/pkg/config"
)

const (
	defaultWriteTimeout = 10 * time.Second
	dialTimeout         = 5 * time.Second
)

// Producer lazily keeps one synchronous writer per topic. Messages sharing a
// key land on the same partition, so route events stay ordered per route.
type Producer struct {
	brokers      []string
	clientID     string
	writeTimeout time.Duration

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewProducer validates the broker list and builds a producer.
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Producer{
		brokers:      brokers,
		clientID:     cfg.ClientID,
		writeTimeout: timeout,
		writers:      make(map[string]*kafka.Writer),
	}, nil
}

// WriteMessages writes msgs to topic and waits for all replicas to ack.
func (p *Producer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	if strings.TrimSpace(topic) == "" {
		return errors.New("topic is required")
	}
	return p.writerFor(topic).WriteMessages(ctx, msgs...)
}

// Ping dials the brokers in order and succeeds on the first reachable one.
func (p *Producer) Ping(ctx context.Context) error {
	dialer := &kafka.Dialer{ClientID: p.clientID, Timeout: dialTimeout}
	var errs error
	for _, broker := range p.brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dial %s: %w", broker, err))
			continue
		}
		return conn.Close()
	}
	return errs
}

// Close flushes and releases every writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs error
	for topic, writer := range p.writers {
		errs = multierr.Append(errs, writer.Close())
		delete(p.writers, topic)
	}
	return errs
}

func (p *Producer) writerFor(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: p.writeTimeout,
		Transport:    &kafka.Transport{ClientID: p.clientID},
	}
	p.writers[topic] = writer
	return writer
}

package analytics

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes game events to Kafka. A nil *Producer is valid and
// drops everything, which is what runs when no brokers are configured.
//
// Publish only queues; one sender goroutine writes in queue order, so the
// events of a game reach the topic in the order they happened.
type Producer struct {
	writer MessageWriter
	queue  chan kafka.Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return NewProducerWithWriter(writer)
}

// NewProducerWithWriter is used when the writer is built elsewhere.
func NewProducerWithWriter(w MessageWriter) *Producer {
	p := &Producer{
		writer: w,
		queue:  make(chan kafka.Message, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

type envelope struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publish queues an event. It blocks only while the queue is full or ctx is live;
// events published after Close are dropped.
func (p *Producer) Publish(ctx context.Context, event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}

	data, err := json.Marshal(envelope{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("[ANALYTICS] Failed to encode %s event: %v", event, err)
		return
	}

	msg := kafka.Message{Value: data}
	if gameID, ok := payload["gameId"].(string); ok && gameID != "" {
		msg.Key = []byte(gameID)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Printf("[ANALYTICS] Producer closed, dropping %s event", event)
		return
	}

	select {
	case p.queue <- msg:
	case <-ctx.Done():
		log.Printf("[ANALYTICS] Queue full, dropping %s event: %v", event, ctx.Err())
	}
}

func (p *Producer) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("[ANALYTICS] Kafka publish failed: %v", err)
		}
		cancel()
	}
}

// Close stops accepting events, writes everything already queued and closes the writer.
func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	if err := p.writer.Close(); err != nil {
		log.Printf("[ANALYTICS] Failed to close writer: %v", err)
	}
}

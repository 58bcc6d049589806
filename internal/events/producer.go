package events

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox channel and writes them from a
// single goroutine, so publishing from request handlers never blocks on
// the broker.
type Producer struct {
	w       *kafka.Writer
	logger  *log.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int, logger *log.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start launches the writer loop. The loop drains the inbox on shutdown
// before closing the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil && p.logger != nil {
		p.logger.Printf("events: write topic=%s key=%s error=%v", p.w.Topic, m.Key, err)
	}
}

// Publish enqueues a message. Partition key keeps all events of one order
// in sequence. When the inbox is full the message is dropped and logged;
// order flow never blocks on the broker.
func (p *Producer) Publish(key, value []byte) {
	m := kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}
	select {
	case p.inbox <- m:
	default:
		if p.logger != nil {
			p.logger.Printf("events: inbox full, dropping key=%s", key)
		}
	}
}

// WaitClosed blocks until the writer loop has drained and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }

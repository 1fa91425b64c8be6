package noop

import (
	"context"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/mq"
)

// Publisher implements mq.Publisher without touching any broker. It is used
// when messaging is disabled; outbox rows stay pending until a real publisher
// drains them.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, topic string, body []byte) error {
	return nil
}

func (p *Publisher) Close() {}

var _ mq.Publisher = (*Publisher)(nil)

package metrics

import "context"

// Publisher отправляет уведомления о документах.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

type countingPublisher struct {
	next    Publisher
	metrics *Metrics
}

// CountingPublisher учитывает каждое уведомление в document_events_total и передаёт его дальше.
// Событие учитывается даже при ошибке брокера: документ уже изменён.
func (m *Metrics) CountingPublisher(next Publisher) Publisher {
	return &countingPublisher{next: next, metrics: m}
}

func (p *countingPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	p.metrics.DocumentEvent(routingKey)
	return p.next.Publish(ctx, routingKey, message)
}

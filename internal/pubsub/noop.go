package pubsub

import "context"

// Noop drops every message. It is used when no GCP project is configured.
type Noop struct{}

var _ PubSubClient = Noop{}

func (Noop) SendMessage(ctx context.Context, topic EventType, data any) error {
	return nil
}

func (Noop) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (Noop) Close() error {
	return nil
}

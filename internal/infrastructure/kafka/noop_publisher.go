package kafka

import "github.com/LavaJover/shvark-credit-service/internal/domain"

// NoopPublisher is used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayment(domain.PaymentEvent) error       { return nil }
func (NoopPublisher) PublishGeneration(domain.GenerationEvent) error { return nil }

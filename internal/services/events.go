package services

// EventPublisher publishes moderation events to the message broker. A nil
// publisher disables events without changing request outcomes.
type EventPublisher interface {
	Publish(event string, payload map[string]interface{}) error
}

package services

// EventPublisher publishes content lifecycle events. Satisfied by
// *rabbitmq.Client; services treat a nil publisher as "messaging disabled"
// and a failed publish as a warning, never as a request failure.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// Event types published by the services.
const (
	EventArticleCreated = "article.created"
	EventArticleDeleted = "article.deleted"
	EventAccountDeleted = "account.deleted"
)

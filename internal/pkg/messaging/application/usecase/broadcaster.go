package usecase

// Broadcaster is the realtime fan-out port as seen from the use cases.
// Publish is called synchronously by whichever use case caused the state
// change; delivery to subscribers is best-effort with no retry.
type Broadcaster interface {
	Publish(eventType string, payload any) int
}

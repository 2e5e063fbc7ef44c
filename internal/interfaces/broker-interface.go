package interfaces

// ProducerHandler publishes mail events for the external notification
// dispatcher. Implementations must be best-effort: a failed publish is
// reported but must never roll back a state transition.
type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}

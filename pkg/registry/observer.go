package registry

// Observer receives registry events, typically to feed metrics.
// Callbacks run synchronously on the evaluation goroutine and must not call
// back into the registry.
type Observer interface {
	// OnClaim is called after an id was inserted.
	OnClaim(scope string, id ElementID)

	// OnRelease is called after an id was removed.
	OnRelease(scope string, id ElementID)

	// OnCollision is called once per rejected claim.
	OnCollision(scope string, id ElementID, policy Policy)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnClaim(scope string, id ElementID)                    {}
func (NoopObserver) OnRelease(scope string, id ElementID)                  {}
func (NoopObserver) OnCollision(scope string, id ElementID, policy Policy) {}

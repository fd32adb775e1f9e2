package metrics

import (
	"github.com/getmockd/idscope/pkg/registry"
)

// RegistryObserver is a registry.Observer that records claims, releases
// and collisions per scope.
type RegistryObserver struct {
	Claims     *Counter
	Releases   *Counter
	Collisions *Counter
	Claimed    *Gauge
}

var _ registry.Observer = (*RegistryObserver)(nil)

// NewRegistryObserver registers the registry metrics on r.
func NewRegistryObserver(r *Registry) *RegistryObserver {
	return &RegistryObserver{
		Claims:     r.NewCounter("idscope_claims_total", "Total number of accepted element id claims", "scope"),
		Releases:   r.NewCounter("idscope_releases_total", "Total number of released element ids", "scope"),
		Collisions: r.NewCounter("idscope_collisions_total", "Total number of rejected duplicate element id claims", "scope", "policy"),
		Claimed:    r.NewGauge("idscope_claimed_ids", "Number of element ids currently claimed", "scope"),
	}
}

// Label counts are fixed above, so WithLabels cannot fail here.

func (o *RegistryObserver) OnClaim(scope string, _ registry.ElementID) {
	if vec, err := o.Claims.WithLabels(scope); err == nil {
		_ = vec.Inc()
	}
	if vec, err := o.Claimed.WithLabels(scope); err == nil {
		vec.Inc()
	}
}

func (o *RegistryObserver) OnRelease(scope string, _ registry.ElementID) {
	if vec, err := o.Releases.WithLabels(scope); err == nil {
		_ = vec.Inc()
	}
	if vec, err := o.Claimed.WithLabels(scope); err == nil {
		vec.Dec()
	}
}

func (o *RegistryObserver) OnCollision(scope string, _ registry.ElementID, policy registry.Policy) {
	if vec, err := o.Collisions.WithLabels(scope, policy.String()); err == nil {
		_ = vec.Inc()
	}
}

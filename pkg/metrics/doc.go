// Package metrics collects counters and gauges for id registries and writes
// them in the Prometheus text exposition format (version 0.0.4).
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., claims made)
//   - Gauge: value that can go up or down (e.g., ids currently claimed)
//
// # Registry Metrics
//
// RegistryObserver plugs into registry.WithObserver and maintains:
//
//   - idscope_claims_total: Counter of accepted claims (labels: scope)
//   - idscope_releases_total: Counter of released ids (labels: scope)
//   - idscope_collisions_total: Counter of rejected claims (labels: scope, policy)
//   - idscope_claimed_ids: Gauge of ids currently claimed (labels: scope)
//
// # Usage
//
//	m := metrics.NewRegistry()
//	obs := metrics.NewRegistryObserver(m)
//	reg := registry.New(registry.PolicyWarn, registry.WithObserver(obs))
//	...
//	_, _ = m.WriteTo(os.Stdout)
package metrics

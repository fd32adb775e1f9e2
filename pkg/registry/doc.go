// Package registry tracks which element ids are claimed within one scope.
//
// A Registry is an unordered set of claimed ids plus a collision policy that
// is fixed when the registry is created. It exposes exactly two mutating
// operations:
//
//   - Claim inserts an id, or rejects it when the id is already claimed.
//   - Release removes an id. Releasing an absent id is a harmless no-op.
//
// There is no rename primitive: a value change is always expressed as a
// claim of the new id followed by a release of the old one (see package
// reconcile). There is also no public enumeration of the claimed ids.
//
// # Collision policy
//
//   - PolicyWarn: a rejected claim logs one warning and returns false.
//   - PolicyThrow: a rejected claim returns a *CollisionError.
//
// In both cases the registry is left untouched by the rejected claim.
//
// # Concurrency
//
// A Registry belongs to one scope and is mutated only from that scope's
// evaluation goroutine. It carries no locks. Separate registries never
// interact and may live on separate goroutines.
package registry

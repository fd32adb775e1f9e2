// Package reconcile keeps one consumer's element id claim consistent with
// a shared registry.
//
// A Reconciler remembers the id its consumer currently owns. On every
// evaluation the consumer reports the id it wants (or none) and the
// Reconciler issues at most one Claim and at most one Release against the
// registry:
//
//   - no id wanted: release the owned id (or fail when the id is required)
//   - same id as owned: nothing to do
//   - a different id: claim the new one first, and release the old one
//     only if the claim succeeded
//
// Claiming before releasing means a rejected replacement never leaves the
// consumer's old id vacant.
package reconcile

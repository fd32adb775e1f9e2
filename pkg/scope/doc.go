// Package scope makes a registry reachable to every consumer of one
// document and keeps each consumer's Reconciler between evaluations.
//
// A Scope is passed explicitly down the consumer tree. Consumers identify
// themselves with a Handle that stays stable across their re-evaluations;
// the first UseElementID call for a handle creates its Reconciler and
// Dispose tears it down.
//
// # Execution modes
//
// ModeInteractive consumers mount, update and unmount; Dispose releases
// their claims. ModeOneShot consumers are evaluated once to produce a
// static artifact and are never disposed: Dispose is ignored and every
// claim stays in the registry for the lifetime of the Scope. Create one
// Scope per artifact when artifacts must not share ids.
package scope

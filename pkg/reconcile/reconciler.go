package reconcile

import "github.com/getmockd/idscope/pkg/registry"

// Claimer is the part of a registry a Reconciler needs.
// *registry.Registry implements it.
type Claimer interface {
	Claim(id registry.ElementID) (bool, error)
	Release(id registry.ElementID) bool
}

// Reconciler holds one consumer's claim. It is not safe for concurrent use;
// it runs on the evaluation goroutine of its scope.
type Reconciler struct {
	claimer  Claimer
	owned    registry.ElementID
	rejected registry.ElementID // last desired id turned down under warn
	disposed bool
}

// New returns a Reconciler that owns nothing yet.
func New(c Claimer) *Reconciler {
	return &Reconciler{claimer: c}
}

// Owned returns the id this consumer currently holds, or "".
func (r *Reconciler) Owned() registry.ElementID { return r.owned }

// Disposed reports whether Dispose has run.
func (r *Reconciler) Disposed() bool { return r.disposed }

// Evaluate reconciles the claim with the desired id.
//
// An empty desired id releases the current claim, unless required is set,
// in which case Evaluate returns a *ValidationError without touching the
// registry. A rejected claim leaves the current claim in place; under the
// throw policy the registry's *registry.CollisionError is returned as is.
// Under the warn policy a rejected id is not asked for again until the
// desired id changes, even if its owner has released it meanwhile.
func (r *Reconciler) Evaluate(desired registry.ElementID, required bool) error {
	if r.disposed {
		return ErrDisposed
	}

	if desired == "" {
		if required {
			return &ValidationError{Message: requiredMessage}
		}
		r.claimer.Release(r.owned)
		r.owned = ""
		r.rejected = ""
		return nil
	}

	if desired == r.owned || desired == r.rejected {
		return nil
	}

	ok, err := r.claimer.Claim(desired)
	if err != nil {
		return err
	}
	if !ok {
		r.rejected = desired
		return nil
	}
	r.claimer.Release(r.owned)
	r.owned = desired
	r.rejected = ""
	return nil
}

// Dispose releases the owned id regardless of what was last desired.
// Calling Dispose more than once is a no-op.
func (r *Reconciler) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.claimer.Release(r.owned)
	r.owned = ""
	r.rejected = ""
}

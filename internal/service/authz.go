package service

import (
	"github.com/spec-kit/ticketdesk/internal/domain"
)

// authzPolicy carries the deployment-level authorization knobs shared by the
// services.
type authzPolicy struct {
	// maskNotFound makes denials indistinguishable from NotFound so that a
	// denied actor cannot learn whether the resource exists.
	maskNotFound bool
}

// ensure re-derives the authorization decision from the current actor and
// resource state. Every use case that loads a resource by id calls this,
// including read-only retrieval; nothing is cached from prior requests.
func (p authzPolicy) ensure(actor domain.Actor, resource domain.OwnedResource, action domain.Action) error {
	decision := domain.Authorize(actor, resource, action)
	if decision.Allowed {
		return nil
	}
	if p.maskNotFound {
		return domain.NewNotFound(string(resource.ResourceKind()))
	}
	return domain.NewForbidden(decision.Reason)
}

// ensureActive rejects inactive actors on operations that have no resource to
// load yet (creation).
func (p authzPolicy) ensureActive(actor domain.Actor) error {
	if !actor.Active {
		return domain.NewForbidden(domain.DenyInactiveActor)
	}
	return nil
}

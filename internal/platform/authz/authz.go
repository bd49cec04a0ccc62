// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz holds the single ownership rule every mutable resource obeys.

A caller may update or delete a video, comment, or subscription only when the
verified identity produced by the auth guard is the recorded owner. There are
no roles and no administrative override.

Usage:

	ownerID, err := repository.FindOwner(ctx, videoID)
	if err != nil {
	    return err
	}
	if err := authz.AuthorizeOwnerMutation(identity, ownerID); err != nil {
	    return err
	}
*/
package authz

import (
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// # Decisions

// Reason is a stable code explaining an authorization outcome.
type Reason string

const (
	// ReasonOwner means the identity matches the recorded owner.
	ReasonOwner Reason = "owner"
	// ReasonNotOwner means a verified identity tried to mutate someone else's resource.
	ReasonNotOwner Reason = "not_owner"
	// ReasonAnonymous means no verified identity was supplied.
	ReasonAnonymous Reason = "anonymous"
)

// Decision is the outcome of an ownership check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

/*
Decide evaluates the ownership rule without producing an error.

Parameters:
  - identity: *sec.AccessClaims (nil when the request is anonymous)
  - ownerID: string (owner recorded on the resource)

Returns:
  - Decision: Allowed iff identity.UserID equals ownerID
*/
func Decide(identity *sec.AccessClaims, ownerID string) Decision {
	if identity == nil || identity.UserID == "" {
		return Decision{Allowed: false, Reason: ReasonAnonymous}
	}

	// An empty owner never matches, even an empty identity
	if ownerID == "" || identity.UserID != ownerID {
		return Decision{Allowed: false, Reason: ReasonNotOwner}
	}

	return Decision{Allowed: true, Reason: ReasonOwner}
}

/*
AuthorizeOwnerMutation returns nil when the identity owns the resource.

Returns:
  - error: apperr.Forbidden for any denied decision
*/
func AuthorizeOwnerMutation(identity *sec.AccessClaims, ownerID string) error {
	decision := Decide(identity, ownerID)
	if decision.Allowed {
		return nil
	}

	if decision.Reason == ReasonAnonymous {
		return apperr.Forbidden("Authentication is required to modify this resource")
	}
	return apperr.Forbidden("You do not own this resource")
}

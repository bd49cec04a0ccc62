// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/authz"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

/*
TestDecide covers every branch of the ownership rule.
*/
func TestDecide(t *testing.T) {
	alice := &sec.AccessClaims{UserID: "u-alice"}

	tests := []struct {
		name     string
		identity *sec.AccessClaims
		ownerID  string
		allowed  bool
		reason   authz.Reason
	}{
		{"owner", alice, "u-alice", true, authz.ReasonOwner},
		{"other_user", alice, "u-bob", false, authz.ReasonNotOwner},
		{"anonymous", nil, "u-alice", false, authz.ReasonAnonymous},
		{"empty_identity", &sec.AccessClaims{}, "u-alice", false, authz.ReasonAnonymous},
		{"empty_owner", alice, "", false, authz.ReasonNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := authz.Decide(tt.identity, tt.ownerID)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

/*
TestAuthorizeOwnerMutation verifies the error form of the rule.
*/
func TestAuthorizeOwnerMutation(t *testing.T) {
	alice := &sec.AccessClaims{UserID: "u-alice"}
	bob := &sec.AccessClaims{UserID: "u-bob"}

	assert.NoError(t, authz.AuthorizeOwnerMutation(alice, "u-alice"))

	err := authz.AuthorizeOwnerMutation(bob, "u-alice")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = authz.AuthorizeOwnerMutation(nil, "u-alice")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

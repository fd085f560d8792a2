// Package identity resolves the advisory per-user scope key and manages the
// local user registry. Nothing here is a security boundary: the identity is
// unverified and only partitions data.
package identity

import (
	"errors"
	"net/http"

	"github.com/mbenson/tracker/internal/constants"
)

// ErrMissingIdentity is returned in strict mode when a request carries no
// identity header.
var ErrMissingIdentity = errors.New("missing user identity")

// Resolver derives the user-scope key from a request. It is a pure function
// of the request and never verifies anything.
type Resolver struct {
	// AllowAnonymous restores the legacy behavior of lumping header-less
	// requests into a shared default scope. Off by default because that scope
	// is effectively a public bucket.
	AllowAnonymous bool
}

func (r Resolver) Resolve(req *http.Request) (string, error) {
	if key := req.Header.Get(constants.HeaderUserID); key != "" {
		return key, nil
	}
	if r.AllowAnonymous {
		return constants.DefaultScope, nil
	}
	return "", ErrMissingIdentity
}

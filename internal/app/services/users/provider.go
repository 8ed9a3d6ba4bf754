// Package users resolves the visiting user's context (account, balance,
// friends) from an external identity collaborator. Two providers exist
// behind one interface; deployments pick one, the core never forks on it.
package users

import (
	"context"

	"github.com/kiddarkness/itemshop/internal/app/domain/user"
)

// Provider resolves an identity hint (an account id or a username, depending
// on the implementation) to a read-only user context.
type Provider interface {
	Resolve(ctx context.Context, identityHint string) (user.Context, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, identityHint string) (user.Context, error)

func (f ProviderFunc) Resolve(ctx context.Context, identityHint string) (user.Context, error) {
	if f == nil {
		return user.Context{}, nil
	}
	return f(ctx, identityHint)
}

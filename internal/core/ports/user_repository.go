package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
)

// UserRepository is the identity store.
type UserRepository interface {
	Add(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
	// List returns every user in ascending id order.
	List(ctx context.Context) ([]*user.User, error)
	// ListByRole returns the users with the role in ascending id order.
	ListByRole(ctx context.Context, role user.Role) ([]*user.User, error)
}

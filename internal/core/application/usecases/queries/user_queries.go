package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetUserQueryIsNotConstructed = errors.New("GetUserQuery must be created via NewGetUserQuery constructor")

// GetUserQuery fetches one user profile.
type GetUserQuery struct { //nolint:recvcheck //using for validation
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserQuery(userID kernel.UUID) (GetUserQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetUserQuery{}, errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	return GetUserQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

// AddressView is a saved location of a user.
type AddressView struct {
	Label    string `json:"label"`
	Location Point  `json:"location"`
}

// UserView is a user profile.
type UserView struct {
	ID        kernel.UUID   `json:"id"`
	Role      user.Role     `json:"role"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone,omitempty"`
	Email     string        `json:"email,omitempty"`
	City      string        `json:"city,omitempty"`
	Addresses []AddressView `json:"addresses"`
}

func userView(u *user.User) UserView {
	addresses := make([]AddressView, 0, len(u.Addresses()))
	for _, a := range u.Addresses() {
		addresses = append(addresses, AddressView{Label: a.Label, Location: pointOf(a.Location)})
	}
	return UserView{
		ID:        u.ID(),
		Role:      u.Role(),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Email:     u.Email(),
		City:      u.City(),
		Addresses: addresses,
	}
}

// UserQueryHandler serves the identity reads.
type UserQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewUserQueryHandler(uowFactory ports.UnitOfWorkFactory) UserQueryHandler {
	return UserQueryHandler{uowFactory: uowFactory}
}

// List returns every user in id order.
func (h UserQueryHandler) List(ctx context.Context) ([]UserView, error) {
	views := make([]UserView, 0)
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		users, err := uow.Users().List(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			views = append(views, userView(u))
		}
		return nil
	})
	return views, err
}

func (h UserQueryHandler) Get(ctx context.Context, query GetUserQuery) (UserView, error) {
	if err := query.Validate(); err != nil {
		return UserView{}, err
	}

	var view UserView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		u, err := uow.Users().Get(ctx, query.userID)
		if err != nil {
			return err
		}
		view = userView(u)
		return nil
	})
	return view, err
}

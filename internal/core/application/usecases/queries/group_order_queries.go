package queries

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetGroupOrderQueryIsNotConstructed = errors.New(
	"GetGroupOrderQuery must be created via NewGetGroupOrderQuery constructor",
)

type GetGroupOrderQuery struct { //nolint:recvcheck //using for validation
	groupOrderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetGroupOrderQuery(groupOrderID kernel.UUID) (GetGroupOrderQuery, error) {
	if err := groupOrderID.Validate(); err != nil {
		return GetGroupOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("groupOrderId", err)
	}
	return GetGroupOrderQuery{groupOrderID: groupOrderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetGroupOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetGroupOrderQueryIsNotConstructed)
}

// GroupLineView is an item a participant added.
type GroupLineView struct {
	MenuItemID kernel.UUID    `json:"menuItemId"`
	Name       string         `json:"name,omitempty"`
	Qty        int            `json:"qty"`
	Options    map[string]any `json:"options,omitempty"`
}

// ParticipantView is a customer of a group order with their lines.
type ParticipantView struct {
	UserID kernel.UUID     `json:"userId"`
	Items  []GroupLineView `json:"items"`
}

// GroupOrderView is a shared cart.
type GroupOrderView struct {
	ID           kernel.UUID       `json:"id"`
	RestaurantID kernel.UUID       `json:"restaurantId"`
	HostUserID   kernel.UUID       `json:"hostUserId"`
	Status       grouporder.Status `json:"status"`
	Participants []ParticipantView `json:"participants"`
	ExpiresAt    *time.Time        `json:"expiresAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func groupOrderView(g *grouporder.GroupOrder, names map[kernel.UUID]string) GroupOrderView {
	participants := make([]ParticipantView, 0, len(g.Participants()))
	for _, p := range g.Participants() {
		items := make([]GroupLineView, 0, len(p.Lines))
		for _, l := range p.Lines {
			items = append(items, GroupLineView{
				MenuItemID: l.MenuItemID,
				Name:       names[l.MenuItemID],
				Qty:        l.Qty,
				Options:    l.Options,
			})
		}
		participants = append(participants, ParticipantView{UserID: p.UserID, Items: items})
	}

	return GroupOrderView{
		ID:           g.ID(),
		RestaurantID: g.RestaurantID(),
		HostUserID:   g.HostUserID(),
		Status:       g.Status(),
		Participants: participants,
		ExpiresAt:    g.ExpiresAt(),
		CreatedAt:    g.CreatedAt(),
		UpdatedAt:    g.UpdatedAt(),
	}
}

// GroupOrderQueryHandler serves group order reads with menu names resolved.
type GroupOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGroupOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GroupOrderQueryHandler {
	return GroupOrderQueryHandler{uowFactory: uowFactory}
}

// List returns every group order, newest first.
func (h GroupOrderQueryHandler) List(ctx context.Context) ([]GroupOrderView, error) {
	views := make([]GroupOrderView, 0)
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		groups, err := uow.GroupOrders().List(ctx)
		if err != nil {
			return err
		}
		menus := make(map[kernel.UUID]map[kernel.UUID]string)
		for _, g := range groups {
			names, ok := menus[g.RestaurantID()]
			if !ok {
				if names, err = menuNames(ctx, uow, g.RestaurantID()); err != nil {
					return err
				}
				menus[g.RestaurantID()] = names
			}
			views = append(views, groupOrderView(g, names))
		}
		return nil
	})
	return views, err
}

func (h GroupOrderQueryHandler) Get(ctx context.Context, query GetGroupOrderQuery) (GroupOrderView, error) {
	if err := query.Validate(); err != nil {
		return GroupOrderView{}, err
	}

	var view GroupOrderView
	err := read(ctx, h.uowFactory, func(uow ports.UnitOfWork) error {
		g, err := uow.GroupOrders().Get(ctx, query.groupOrderID)
		if err != nil {
			return err
		}
		names, err := menuNames(ctx, uow, g.RestaurantID())
		if err != nil {
			return err
		}
		view = groupOrderView(g, names)
		return nil
	})
	return view, err
}

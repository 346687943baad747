// Package grouporderrepo persists shared carts with GORM.
package grouporderrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/grouporder"

	"github.com/google/uuid"
)

// GroupOrderDTO represents the database structure for group orders. Participants
// and their lines are stored as one JSON document.
type GroupOrderDTO struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID        `gorm:"type:uuid;not null"`
	HostUserID   uuid.UUID        `gorm:"type:uuid;not null"`
	Status       string           `gorm:"type:varchar(16);not null"`
	Participants []ParticipantDTO `gorm:"type:jsonb;serializer:json"`
	ExpiresAt    *time.Time
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the database table name for group orders.
func (GroupOrderDTO) TableName() string {
	return "group_orders"
}

// ParticipantDTO is the JSON form of a participant.
type ParticipantDTO struct {
	UserID uuid.UUID `json:"userId"`
	Lines  []LineDTO `json:"lines"`
}

// LineDTO is the JSON form of a cart line.
type LineDTO struct {
	MenuItemID uuid.UUID      `json:"menuItemId"`
	Qty        int            `json:"qty"`
	Options    map[string]any `json:"options,omitempty"`
}

func fromDomain(g *grouporder.GroupOrder) GroupOrderDTO {
	participants := make([]ParticipantDTO, 0, len(g.Participants()))
	for _, p := range g.Participants() {
		lines := make([]LineDTO, 0, len(p.Lines))
		for _, l := range p.Lines {
			lines = append(lines, LineDTO{MenuItemID: l.MenuItemID.Bytes(), Qty: l.Qty, Options: l.Options})
		}
		participants = append(participants, ParticipantDTO{UserID: p.UserID.Bytes(), Lines: lines})
	}
	return GroupOrderDTO{
		ID:           g.ID().Bytes(),
		RestaurantID: g.RestaurantID().Bytes(),
		HostUserID:   g.HostUserID().Bytes(),
		Status:       string(g.Status()),
		Participants: participants,
		ExpiresAt:    g.ExpiresAt(),
		CreatedAt:    g.CreatedAt(),
		UpdatedAt:    g.UpdatedAt(),
	}
}

func toDomain(dto GroupOrderDTO) (*grouporder.GroupOrder, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := pgtypes.ToUUID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	hostUserID, err := pgtypes.ToUUID(dto.HostUserID)
	if err != nil {
		return nil, err
	}

	participants := make([]grouporder.Participant, 0, len(dto.Participants))
	for _, p := range dto.Participants {
		userID, userErr := pgtypes.ToUUID(p.UserID)
		if userErr != nil {
			return nil, userErr
		}
		lines := make([]grouporder.Line, 0, len(p.Lines))
		for _, l := range p.Lines {
			menuItemID, lineErr := pgtypes.ToUUID(l.MenuItemID)
			if lineErr != nil {
				return nil, lineErr
			}
			lines = append(lines, grouporder.Line{MenuItemID: menuItemID, Qty: l.Qty, Options: l.Options})
		}
		participants = append(participants, grouporder.Participant{UserID: userID, Lines: lines})
	}

	return grouporder.RestoreGroupOrder(
		id, restaurantID, hostUserID,
		grouporder.Status(dto.Status),
		participants,
		dto.ExpiresAt,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

// Package userrepo persists users with GORM.
package userrepo

import (
	"fooddelivery/internal/adapters/out/postgres/pgtypes"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for users. Addresses live in a JSON
// column because they are only ever read together with their user.
type UserDTO struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Role      string       `gorm:"type:varchar(16);not null;index"`
	Name      string       `gorm:"type:varchar(255);not null"`
	Phone     string       `gorm:"type:varchar(32)"`
	Email     string       `gorm:"type:varchar(255)"`
	City      string       `gorm:"type:varchar(64)"`
	Addresses []AddressDTO `gorm:"type:jsonb;serializer:json"`
}

// TableName specifies the database table name for users.
func (UserDTO) TableName() string {
	return "users"
}

// AddressDTO is the JSON form of a saved address.
type AddressDTO struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

func fromDomain(u *user.User) UserDTO {
	addresses := make([]AddressDTO, 0, len(u.Addresses()))
	for _, a := range u.Addresses() {
		addresses = append(addresses, AddressDTO{Label: a.Label, Lat: a.Location.Lat(), Lng: a.Location.Lng()})
	}
	return UserDTO{
		ID:        u.ID().Bytes(),
		Role:      u.Role().String(),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Email:     u.Email(),
		City:      u.City(),
		Addresses: addresses,
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := pgtypes.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	addresses := make([]user.Address, 0, len(dto.Addresses))
	for _, a := range dto.Addresses {
		loc, locErr := kernel.NewGeoPoint(a.Lat, a.Lng)
		if locErr != nil {
			return nil, locErr
		}
		addresses = append(addresses, user.Address{Label: a.Label, Location: loc})
	}
	return user.NewUser(id, role, dto.Name, dto.Phone, dto.Email, dto.City, addresses)
}

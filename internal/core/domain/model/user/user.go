package user

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrUserIsNotConstructed is returned when a zero-value User is used.
var ErrUserIsNotConstructed = errs.NewValueIsRequiredError("User must be created via NewUser constructor")

// Address is a labelled location saved on a user profile.
type Address struct {
	Label    string
	Location kernel.GeoPoint
}

// User is a person known to the service.
//
// Invariants:
//   - id is a valid UUID
//   - role is one of the known roles
//   - name is not blank
//   - every address carries a valid location
type User struct {
	id        kernel.UUID
	role      Role
	name      string
	phone     string
	email     string
	city      string
	addresses []Address
	guard     guard.ConstructorGuard
}

// NewUser validates its arguments and builds a User. The first address, if any,
// is the default one.
func NewUser(
	id kernel.UUID,
	role Role,
	name, phone, email, city string,
	addresses []Address,
) (*User, error) {
	u := &User{
		phone: strings.TrimSpace(phone),
		email: strings.TrimSpace(email),
		city:  strings.ToUpper(strings.TrimSpace(city)),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setRole(role),
		u.setName(name),
		u.setAddresses(addresses),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate returns ErrUserIsNotConstructed for nil and zero values.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) Email() string {
	return u.email
}

// City returns the upper-cased city code, e.g. "HKG". It may be empty.
func (u *User) City() string {
	return u.city
}

// Addresses returns a copy of the saved addresses.
func (u *User) Addresses() []Address {
	out := make([]Address, len(u.addresses))
	copy(out, u.addresses)
	return out
}

// DefaultLocation returns the location of the first saved address.
func (u *User) DefaultLocation() (kernel.GeoPoint, bool) {
	if len(u.addresses) == 0 {
		return kernel.GeoPoint{}, false
	}
	return u.addresses[0].Location, true
}

// HasRole reports whether the user acts with the given role.
func (u *User) HasRole(role Role) bool {
	return u.role == role
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setAddresses(addresses []Address) error {
	var problems []error
	for _, a := range addresses {
		if err := a.Location.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("address "+a.Label, err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	u.addresses = make([]Address, len(addresses))
	copy(u.addresses, addresses)
	return nil
}

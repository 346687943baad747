package services_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	restaurant = kernel.MustGeoPoint(22.282, 114.158)
	dropoff    = kernel.MustGeoPoint(22.335, 114.175)
	hkLeg      = services.Leg{Restaurant: restaurant, Dropoff: dropoff, City: "HKG"}
)

func courierAt(t *testing.T, id string, home *kernel.GeoPoint) *user.User {
	t.Helper()
	var addrs []user.Address
	if home != nil {
		addrs = []user.Address{{Label: "Home", Location: *home}}
	}
	u, err := user.NewUser(kernel.MustUUIDFromString(id), user.RoleCourier, "Courier "+id[:4], "", "", "HKG", addrs)
	require.NoError(t, err)
	return u
}

func ptr(p kernel.GeoPoint) *kernel.GeoPoint { return &p }

func TestCourierDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewCourierDispatcher()

	t.Run("should pick the courier with the lowest travel time", func(t *testing.T) {
		near := courierAt(t, "00000000-0000-0000-0000-000000000002", ptr(kernel.MustGeoPoint(22.283, 114.159)))
		far := courierAt(t, "00000000-0000-0000-0000-000000000001", ptr(kernel.MustGeoPoint(22.4, 114.3)))

		choice, err := dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: far}, {Courier: near}})

		require.NoError(t, err)
		assert.True(t, choice.Courier.ID().IsEqual(near.ID()))
	})

	t.Run("should add five minutes per active delivery", func(t *testing.T) {
		home := ptr(kernel.MustGeoPoint(22.283, 114.159))
		busy := courierAt(t, "00000000-0000-0000-0000-000000000001", home)
		idle := courierAt(t, "00000000-0000-0000-0000-000000000002", home)

		choice, err := dispatcher.Dispatch(hkLeg, []services.Candidate{
			{Courier: busy, ActiveDeliveries: 2},
			{Courier: idle},
		})

		require.NoError(t, err)
		assert.True(t, choice.Courier.ID().IsEqual(idle.ID()))

		dropoffLeg, err := services.TravelMinutes(restaurant, dropoff, "HKG")
		require.NoError(t, err)
		assert.Equal(t, services.MinTravelMinutes+dropoffLeg, choice.Score)
	})

	t.Run("should break ties by ascending courier id regardless of input order", func(t *testing.T) {
		home := ptr(kernel.MustGeoPoint(22.29, 114.16))
		a := courierAt(t, "00000000-0000-0000-0000-00000000000a", home)
		b := courierAt(t, "00000000-0000-0000-0000-00000000000b", home)

		for range 10 {
			first, err := dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: b}, {Courier: a}})
			require.NoError(t, err)
			second, err := dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: a}, {Courier: b}})
			require.NoError(t, err)

			assert.True(t, first.Courier.ID().IsEqual(a.ID()))
			assert.True(t, second.Courier.ID().IsEqual(a.ID()))
		}
	})

	t.Run("should prefer the last reported location over home", func(t *testing.T) {
		c := courierAt(t, "00000000-0000-0000-0000-000000000001", ptr(kernel.MustGeoPoint(31.2, 121.4)))
		reported := kernel.MustGeoPoint(22.283, 114.159)

		choice, err := dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: c, LastLocation: &reported}})

		require.NoError(t, err)
		assert.Equal(t, reported, choice.Location)
	})

	t.Run("should fall back to the city default without home or report", func(t *testing.T) {
		c := courierAt(t, "00000000-0000-0000-0000-000000000001", nil)

		choice, err := dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: c}})

		require.NoError(t, err)
		assert.Equal(t, delivery.DefaultCourierLocation, choice.Location)
	})

	t.Run("should return not found when no candidates", func(t *testing.T) {
		_, err := dispatcher.Dispatch(hkLeg, nil)

		require.ErrorIs(t, err, services.ErrCourierNotFound)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject non-courier candidates", func(t *testing.T) {
		customer, err := user.NewUser(kernel.NewUUID(), user.RoleCustomer, "Alice", "", "", "HKG", nil)
		require.NoError(t, err)

		_, err = dispatcher.Dispatch(hkLeg, []services.Candidate{{Courier: customer}})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an invalid leg", func(t *testing.T) {
		c := courierAt(t, "00000000-0000-0000-0000-000000000001", nil)

		_, err := dispatcher.Dispatch(services.Leg{}, []services.Candidate{{Courier: c}})

		require.Error(t, err)
	})
}

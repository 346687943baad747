package order_test

import (
	"fmt"
	"testing"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should keep unknown as zero value", func(t *testing.T) {
		var s order.Status
		assert.Equal(t, order.Unknown, s)
		require.Error(t, s.Validate())
	})

	t.Run("should have distinct wire names", func(t *testing.T) {
		seen := map[string]bool{}
		for _, s := range order.Statuses() {
			assert.False(t, seen[s.String()], "duplicate name %s", s)
			seen[s.String()] = true
		}
		assert.Len(t, seen, 10)
	})
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Created:    {order.Confirmed, order.Cancelled},
		order.Confirmed:  {order.Preparing, order.Cancelled},
		order.Preparing:  {order.PickedUp, order.Cancelled},
		order.PickedUp:   {order.Delivering, order.Cancelled},
		order.Delivering: {order.Delivered, order.Failed, order.Cancelled},
		order.Delivered:  {order.Completed, order.Refunded},
	}

	for _, from := range order.Statuses() {
		for _, to := range order.Statuses() {
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				want := false
				for _, a := range allowed[from] {
					want = want || a == to
				}

				next, err := from.TransitionTo(to)

				assert.Equal(t, want, from.CanTransitionTo(to))
				if want {
					require.NoError(t, err)
					assert.Equal(t, to, next)
					return
				}
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrConflict)
				assert.Contains(t, err.Error(), fmt.Sprintf("invalid transition %s -> %s", from, to))
			})
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := []order.Status{order.Completed, order.Cancelled, order.Refunded, order.Failed}

	for _, s := range order.Statuses() {
		t.Run(s.String(), func(t *testing.T) {
			want := false
			for _, ts := range terminal {
				want = want || ts == s
			}
			assert.Equal(t, want, s.IsTerminal())
		})
	}
	assert.False(t, order.Unknown.IsTerminal())
}

func TestStatus_Flags(t *testing.T) {
	assert.True(t, order.Confirmed.IsInFlight())
	assert.True(t, order.PickedUp.IsInFlight())
	assert.False(t, order.Created.IsInFlight())
	assert.False(t, order.Delivered.IsInFlight())

	assert.True(t, order.Cancelled.RestoresStock())
	assert.True(t, order.Refunded.RestoresStock())
	assert.False(t, order.Failed.RestoresStock())
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse every wire name case-insensitively", func(t *testing.T) {
		for _, s := range order.Statuses() {
			parsed, err := order.ParseStatus(" " + fmt.Sprint(s) + " ")
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
		parsed, err := order.ParseStatus("picked_up")
		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, parsed)
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := order.ParseStatus("SHIPPED")

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
	})

	t.Run("should reject transition to an invalid status", func(t *testing.T) {
		_, err := order.Created.TransitionTo(order.Status(99))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

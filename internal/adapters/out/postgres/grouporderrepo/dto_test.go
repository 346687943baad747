package grouporderrepo

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupOrderDTO_Mapping(t *testing.T) {
	// given
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	host, guest, dish := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	g, err := grouporder.NewGroupOrder(kernel.NewUUID(), kernel.NewUUID(), host, &expires, now)
	require.NoError(t, err)
	require.NoError(t, g.AddLines(host, []grouporder.Line{{MenuItemID: dish, Qty: 1}}, now))
	require.NoError(t, g.AddLines(guest, []grouporder.Line{{MenuItemID: dish, Qty: 2, Options: map[string]any{"spice": "hot"}}}, now))

	// when
	restored, err := toDomain(fromDomain(g))

	// then
	require.NoError(t, err)
	assert.Equal(t, grouporder.Open, restored.Status())
	require.NotNil(t, restored.ExpiresAt())
	assert.True(t, restored.ExpiresAt().Equal(expires))
	participants := restored.Participants()
	require.Len(t, participants, 2)
	assert.Equal(t, host, participants[0].UserID)
	assert.Equal(t, guest, participants[1].UserID)
	assert.Equal(t, "hot", participants[1].Lines[0].Options["spice"])
}

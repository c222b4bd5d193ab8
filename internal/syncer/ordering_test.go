package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilbuda/go-shoplist-sdk/models"
)

func ts(offset time.Duration) models.Timestamp {
	return models.Timestamp{Time: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC).Add(offset)}
}

func chainItems(ids ...string) []models.Item {
	items := make([]models.Item, len(ids))
	prev := models.FirstItemID
	for i, id := range ids {
		items[i] = models.Item{ID: id, PreviousID: prev, Modified: ts(time.Duration(i) * time.Minute)}
		prev = id
	}
	return items
}

func TestOrderItems_FollowsChain(t *testing.T) {
	items := chainItems("a", "b", "c")
	// Shuffle.
	shuffled := []models.Item{items[2], items[0], items[1]}

	ordered := OrderItems(shuffled)

	require.Len(t, ordered, 3)
	assert.Equal(t, "a", ordered[0].ID)
	assert.Equal(t, "b", ordered[1].ID)
	assert.Equal(t, "c", ordered[2].ID)
}

func TestOrderItems_OrphansAppendedNewestFirst(t *testing.T) {
	items := chainItems("a", "b")
	orphanOld := models.Item{ID: "x", PreviousID: "ghost", Modified: ts(time.Hour)}
	orphanNew := models.Item{ID: "y", PreviousID: "ghost2", Modified: ts(2 * time.Hour)}
	all := append(items, orphanOld, orphanNew)

	ordered := OrderItems(all)

	require.Len(t, ordered, 4)
	assert.Equal(t, []string{"a", "b", "y", "x"},
		[]string{ordered[0].ID, ordered[1].ID, ordered[2].ID, ordered[3].ID})
}

func TestOrderItems_DuplicatePredecessorDoesNotLoop(t *testing.T) {
	// Two items claim the same predecessor; one wins the chain slot, the
	// other falls to the tail.
	items := []models.Item{
		{ID: "a", PreviousID: models.FirstItemID, Modified: ts(0)},
		{ID: "b", PreviousID: "a", Modified: ts(time.Minute)},
		{ID: "b2", PreviousID: "a", Modified: ts(2 * time.Minute)},
	}

	ordered := OrderItems(items)
	require.Len(t, ordered, 3)
	assert.Equal(t, "a", ordered[0].ID)
}

func TestRepairItemChain_MakesChainContiguous(t *testing.T) {
	items := []models.Item{
		{ID: "a", PreviousID: models.FirstItemID, Modified: ts(0)},
		{ID: "b", PreviousID: "ghost", Modified: ts(time.Minute)},
		{ID: "c", PreviousID: "b", Modified: ts(2 * time.Minute)},
	}

	repaired := repairItemChain(items)

	assert.Equal(t, 1, repaired)
	assert.Equal(t, "a", items[1].PreviousID)
	assert.Equal(t, "b", items[2].PreviousID)
	// The repaired entry got a fresh stamp; the untouched ones kept theirs.
	assert.True(t, items[1].Modified.After(ts(time.Minute).Time))
	assert.True(t, items[2].Modified.Equal(ts(2*time.Minute).Time))
}

func TestRepairItemChain_IntactChainUntouched(t *testing.T) {
	items := chainItems("a", "b", "c")
	assert.Equal(t, 0, repairItemChain(items))
}

func TestOrderLists_EmptyInput(t *testing.T) {
	assert.Empty(t, OrderLists(nil))
}

package syncer

import (
	"sort"

	"github.com/tilbuda/go-shoplist-sdk/models"
)

// chainOrder sorts entities by their previous_id chain: the entity pointing
// at the FIRST sentinel comes first, then whatever points at it, and so on.
// Entities unreachable from the head (broken chains, duplicates pointing at
// the same predecessor) are appended as tail entries ordered by modified
// descending, newest first. Iterative by construction; a cycle cannot loop
// because every entity is visited at most once.
func chainOrder[E any](entities []E, id func(E) string, prev func(E) string, modified func(E) models.Timestamp) []E {
	if len(entities) == 0 {
		return entities
	}

	byPrev := make(map[string][]E, len(entities))
	for _, e := range entities {
		byPrev[prev(e)] = append(byPrev[prev(e)], e)
	}

	ordered := make([]E, 0, len(entities))
	visited := make(map[string]bool, len(entities))

	cursor := models.FirstItemID
	for {
		candidates := byPrev[cursor]
		var next E
		found := false
		for _, c := range candidates {
			if !visited[id(c)] {
				next, found = c, true
				break
			}
		}
		if !found {
			break
		}
		visited[id(next)] = true
		ordered = append(ordered, next)
		cursor = id(next)
	}

	var tail []E
	for _, e := range entities {
		if !visited[id(e)] {
			tail = append(tail, e)
		}
	}
	sort.SliceStable(tail, func(i, j int) bool {
		return modified(tail[j]).Before(modified(tail[i]).Time)
	})

	return append(ordered, tail...)
}

// OrderItems returns the list's items in chain order.
func OrderItems(items []models.Item) []models.Item {
	return chainOrder(items,
		func(i models.Item) string { return i.ID },
		func(i models.Item) string { return i.PreviousID },
		func(i models.Item) models.Timestamp { return i.Modified },
	)
}

// OrderLists returns the user's lists in chain order.
func OrderLists(lists []models.List) []models.List {
	return chainOrder(lists,
		func(l models.List) string { return l.ID },
		func(l models.List) string { return l.PreviousID },
		func(l models.List) models.Timestamp { return l.Modified },
	)
}

// repairItemChain rewrites previous_id so the ordered slice forms one
// contiguous chain starting at the FIRST sentinel. Repaired entries get a
// fresh modified stamp so last-writer-wins resolution later prefers the
// repaired ordering. Returns the number of entries touched.
func repairItemChain(ordered []models.Item) int {
	repaired := 0
	prev := models.FirstItemID
	now := models.Now()
	for idx := range ordered {
		if ordered[idx].PreviousID != prev {
			ordered[idx].PreviousID = prev
			ordered[idx].Modified = now
			repaired++
		}
		prev = ordered[idx].ID
	}
	return repaired
}

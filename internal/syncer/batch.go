package syncer

import "github.com/tilbuda/go-shoplist-sdk/models"

// ListsListener receives list-level change notifications. Slices may be
// empty but never nil when the callback fires; callbacks run on the engine's
// delivery goroutine and must not block.
type ListsListener interface {
	ListsChanged(added, deleted, edited []models.List)
}

// ItemsListener receives item-level change notifications.
type ItemsListener interface {
	ItemsChanged(added, deleted, edited []models.Item)
}

// batch accumulates changes across a whole sync round so subscribers see one
// coherent notification instead of a callback per network round-trip. Keyed
// by entity id: a row added and then edited in the same round surfaces once,
// with its final value. The engine's delivery goroutine is the only accessor,
// so no locking.
type batch struct {
	listsAdded   map[string]models.List
	listsDeleted map[string]models.List
	listsEdited  map[string]models.List
	itemsAdded   map[string]models.Item
	itemsDeleted map[string]models.Item
	itemsEdited  map[string]models.Item
}

func newBatch() *batch {
	return &batch{
		listsAdded:   make(map[string]models.List),
		listsDeleted: make(map[string]models.List),
		listsEdited:  make(map[string]models.List),
		itemsAdded:   make(map[string]models.Item),
		itemsDeleted: make(map[string]models.Item),
		itemsEdited:  make(map[string]models.Item),
	}
}

func (b *batch) listAdded(l models.List) {
	delete(b.listsDeleted, l.ID)
	b.listsAdded[l.ID] = l
}

func (b *batch) listDeleted(l models.List) {
	delete(b.listsAdded, l.ID)
	delete(b.listsEdited, l.ID)
	b.listsDeleted[l.ID] = l
}

func (b *batch) listEdited(l models.List) {
	if _, added := b.listsAdded[l.ID]; added {
		b.listsAdded[l.ID] = l
		return
	}
	b.listsEdited[l.ID] = l
}

func (b *batch) itemAdded(i models.Item) {
	delete(b.itemsDeleted, i.ID)
	b.itemsAdded[i.ID] = i
}

func (b *batch) itemDeleted(i models.Item) {
	delete(b.itemsAdded, i.ID)
	delete(b.itemsEdited, i.ID)
	b.itemsDeleted[i.ID] = i
}

func (b *batch) itemEdited(i models.Item) {
	if _, added := b.itemsAdded[i.ID]; added {
		b.itemsAdded[i.ID] = i
		return
	}
	b.itemsEdited[i.ID] = i
}

func (b *batch) empty() bool {
	return len(b.listsAdded) == 0 && len(b.listsDeleted) == 0 && len(b.listsEdited) == 0 &&
		len(b.itemsAdded) == 0 && len(b.itemsDeleted) == 0 && len(b.itemsEdited) == 0
}

// flush drains the buffers into the listeners and resets the batch.
func (b *batch) flush(listLs []ListsListener, itemLs []ItemsListener) {
	if b.empty() {
		return
	}

	la, ld, le := mapValues(b.listsAdded), mapValues(b.listsDeleted), mapValues(b.listsEdited)
	ia, id, ie := mapValues(b.itemsAdded), mapValues(b.itemsDeleted), mapValues(b.itemsEdited)
	*b = *newBatch()

	if len(la) > 0 || len(ld) > 0 || len(le) > 0 {
		for _, l := range listLs {
			l.ListsChanged(la, ld, le)
		}
	}
	if len(ia) > 0 || len(id) > 0 || len(ie) > 0 {
		for _, l := range itemLs {
			l.ItemsChanged(ia, id, ie)
		}
	}
}

func mapValues[V any](m map[string]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

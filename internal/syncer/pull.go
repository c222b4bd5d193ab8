package syncer

import (
	"net/http"

	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

// modifiedResponse is the body of the lightweight per-list probe.
type modifiedResponse struct {
	Modified models.Timestamp `json:"modified"`
}

// syncLists pulls the full list collection and reconciles it against local
// state. Tagged so overlapping full pulls coalesce instead of racing.
func (e *Engine) syncLists(user models.User) {
	req := network.NewRequest(http.MethodGet, network.EndpointLists(user.ID), nil, nil)
	req.Tag = req.Path
	req.WithDelivery(e.delivery)
	req.Callback = func(res network.Result) {
		e.trackConnectivity(res)
		if res.OK() {
			if server, err := network.DecodeJSON[[]models.List](res); err == nil {
				e.mergeLists(user, server)
			}
		}
		e.inFlight--
		if e.inFlight == 0 {
			e.changes.flush(e.listLs, e.itemLs)
		}
	}

	e.inFlight++
	if err := e.queue.Enqueue(req); err != nil {
		e.inFlight--
	}
}

// mergeLists reconciles the server's list collection with the local one.
// The union of both id sets is walked: rows on both sides resolve by
// last-writer-wins on modified, local-only synced rows were deleted remotely,
// server-only rows are new.
func (e *Engine) mergeLists(user models.User, server []models.List) {
	ctx := e.ctx

	local, err := e.store.GetLists(ctx, user.ID, false)
	if err != nil {
		return
	}

	if e.firstSynced != user.ID {
		e.firstSynced = user.ID
		// Anonymous lists are adopted only into a blank account. If either
		// side already has lists, uploading more would mix pre-login data
		// into an account that never asked for it.
		if len(server) == 0 && len(local) == 0 {
			e.migrateAnonymousData(user)
		}
		defer e.notifyFirstSync()
	}

	localMap := make(map[string]models.List, len(local))
	for _, l := range local {
		localMap[l.ID] = l
	}

	seen := make(map[string]bool, len(server))
	for _, sl := range server {
		seen[sl.ID] = true
		if sl.PreviousID == "" {
			// Old server rows predate ordering; adopt them as chain heads
			// and let chain repair sort out duplicates.
			sl.PreviousID = models.FirstItemID
		}

		ll, exists := localMap[sl.ID]
		switch {
		case !exists:
			sl.State = models.StateSyncing
			if err = e.store.InsertList(ctx, user.ID, sl); err != nil {
				continue
			}
			e.storeServerShares(user, sl)
			e.changes.listAdded(sl)
			e.syncItems(user, sl, models.Timestamp{})

		case ll.Modified.Before(sl.Modified.Time):
			sl.State = models.StateSyncing
			if err = e.store.UpdateList(ctx, user.ID, sl); err != nil {
				continue
			}
			e.storeServerShares(user, sl)
			e.changes.listEdited(sl)
			e.syncItems(user, sl, models.Timestamp{})
		}
		// Local copy is as fresh or fresher: local wins, nothing to do. A
		// dirty local copy gets pushed on the next tick.
	}

	for _, ll := range local {
		if seen[ll.ID] {
			continue
		}
		if ll.State != models.StateSynced {
			// Dirty or mid-flight rows stay; the push path owns their fate.
			continue
		}
		e.dropListLocally(user, ll)
	}
}

// syncListsModified probes each synced list's server-side modified stamp and
// pulls items only for lists that actually changed. The list is parked in
// SYNCING for the duration of the probe so a concurrent tick will not touch
// it.
func (e *Engine) syncListsModified(user models.User) {
	ctx := e.ctx

	lists, err := e.store.GetLists(ctx, user.ID, false)
	if err != nil {
		return
	}

	for _, list := range lists {
		if list.State != models.StateSynced {
			continue
		}

		probed := list
		probed.State = models.StateSyncing
		if err = e.store.UpdateList(ctx, user.ID, probed); err != nil {
			continue
		}

		e.send(http.MethodGet, network.EndpointListModified(user.ID, probed.ID), nil, nil, func(res network.Result) {
			if res.Err != nil {
				restored := probed
				restored.State = models.StateSynced
				_ = e.store.UpdateList(ctx, user.ID, restored)
				return
			}

			mod, derr := network.DecodeJSON[modifiedResponse](res)
			if derr != nil || !mod.Modified.After(probed.Modified.Time) {
				restored := probed
				restored.State = models.StateSynced
				_ = e.store.UpdateList(ctx, user.ID, restored)
				return
			}

			e.syncItems(user, probed, mod.Modified)
		})
	}
}

// syncItems pulls a list's items and merges them. newModified, when nonzero,
// is the server-side list stamp adopted once the merge lands; the list leaves
// SYNCING only at the end of the merge.
func (e *Engine) syncItems(user models.User, list models.List, newModified models.Timestamp) {
	ctx := e.ctx

	e.send(http.MethodGet, network.EndpointItems(user.ID, list.ID), nil, nil, func(res network.Result) {
		if res.Err != nil {
			restored := list
			restored.State = models.StateSynced
			_ = e.store.UpdateList(ctx, user.ID, restored)
			return
		}

		server, err := network.DecodeJSON[[]models.Item](res)
		if err != nil {
			return
		}
		e.mergeItems(user, list, server, newModified)
	})
}

// mergeItems reconciles one list's items with the server copy.
//
// The server payload arrives newest-first; it is reversed into insertion
// order, sorted along its previous_id chain and the chain repaired to be
// contiguous. Repaired entries carry a fresh modified stamp and are stored
// dirty so the corrected ordering is pushed back. The union diff then runs
// per item: last-writer-wins on modified, with one special case for pure
// ordering drift where equal stamps but a different previous_id adopt the
// server's chain position.
func (e *Engine) mergeItems(user models.User, list models.List, server []models.Item, newModified models.Timestamp) {
	ctx := e.ctx

	for i, j := 0, len(server)-1; i < j; i, j = i+1, j-1 {
		server[i], server[j] = server[j], server[i]
	}
	for idx := range server {
		server[idx].ListID = list.ID
		if server[idx].PreviousID == "" {
			server[idx].PreviousID = models.FirstItemID
		}
	}

	ordered := OrderItems(server)
	beforeRepair := make(map[string]models.Timestamp, len(ordered))
	for _, it := range ordered {
		beforeRepair[it.ID] = it.Modified
	}
	repaired := repairItemChain(ordered)
	if repaired > 0 {
		e.log.Debug().Str("list_id", list.ID).Int("repaired", repaired).Msg("server item chain repaired")
	}

	local, err := e.store.GetItems(ctx, user.ID, list.ID, false)
	if err != nil {
		return
	}
	localMap := make(map[string]models.Item, len(local))
	for _, it := range local {
		localMap[it.ID] = it
	}

	seen := make(map[string]bool, len(ordered))
	for _, sv := range ordered {
		seen[sv.ID] = true

		// Entries whose chain was repaired go in dirty so the fix uploads.
		sv.State = models.StateSynced
		if !sv.Modified.Equal(beforeRepair[sv.ID].Time) {
			sv.State = models.StateToSync
		}

		lc, exists := localMap[sv.ID]
		switch {
		case !exists:
			if err = e.store.InsertItem(ctx, user.ID, sv); err != nil {
				continue
			}
			e.changes.itemAdded(sv)

		case lc.Modified.Before(sv.Modified.Time):
			if err = e.store.UpdateItem(ctx, user.ID, sv); err != nil {
				continue
			}
			e.changes.itemEdited(sv)

		case lc.Modified.Equal(sv.Modified.Time) && lc.PreviousID != sv.PreviousID && lc.State == models.StateSynced:
			// Same content age, different chain position: the server's view
			// of the ordering is canonical.
			lc.PreviousID = sv.PreviousID
			if err = e.store.UpdateItem(ctx, user.ID, lc); err != nil {
				continue
			}
			e.changes.itemEdited(lc)
		}
	}

	for _, lc := range local {
		if seen[lc.ID] || lc.State != models.StateSynced {
			continue
		}
		if err = e.store.DeleteItem(ctx, user.ID, lc.ID); err != nil {
			continue
		}
		e.changes.itemDeleted(lc)
	}

	done := list
	done.State = models.StateSynced
	if !newModified.IsZero() {
		done.Modified = newModified
	}
	_ = e.store.UpdateList(ctx, user.ID, done)
}

// storeServerShares persists the share set embedded in a server list payload
// and sweeps synced shares the server no longer reports.
func (e *Engine) storeServerShares(user models.User, list models.List) {
	ctx := e.ctx

	keep := make([]string, 0, len(list.Shares))
	for _, sh := range list.Shares {
		sh.ListID = list.ID
		sh.State = models.StateSynced
		if err := e.store.UpsertShare(ctx, user.ID, sh); err != nil {
			continue
		}
		keep = append(keep, sh.Email)
	}
	_ = e.store.CleanShares(ctx, user.ID, list.ID, keep)
}

package syncer

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/tilbuda/go-shoplist-sdk/internal/network"
	"github.com/tilbuda/go-shoplist-sdk/internal/utils"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

func newID() string { return utils.NewUUID() }

// pushLocalChanges uploads dirty rows: lists first, then items and shares of
// every known list. A tick that had list work ends with the list phase; the
// items resume next tick, once every list exists server-side. An item PUT
// racing its own list's create PUT can reach the server first and be rejected
// as unknown, which would read as a deleted item.
func (e *Engine) pushLocalChanges(user models.User) {
	ctx := e.ctx

	dirty, err := e.store.GetLists(ctx, user.ID, true)
	if err != nil {
		e.log.Err(err).Msg("failed to load dirty lists for push")
		return
	}
	if len(dirty) > 0 {
		for _, list := range dirty {
			switch list.State {
			case models.StateToSync:
				e.putList(user, list)
			case models.StateDelete:
				e.delList(user, list)
			case models.StateError:
				e.revertList(user, list)
			}
		}
		return
	}

	all, err := e.store.GetLists(ctx, user.ID, false)
	if err != nil {
		return
	}
	for _, list := range all {
		if list.State == models.StateDelete {
			// The whole list is on its way out; pushing children is noise.
			continue
		}
		e.pushItems(user, list)
		e.pushShares(user, list)
	}
}

// putList uploads a locally created or edited list.
func (e *Engine) putList(user models.User, list models.List) {
	ctx := e.ctx
	list.State = models.StateSyncing
	if err := e.store.UpdateList(ctx, user.ID, list); err != nil {
		return
	}

	local := list
	e.send(http.MethodPut, network.EndpointList(user.ID, list.ID), nil, local, func(res network.Result) {
		if res.Err != nil {
			e.listPushFailed(user, local, res.Err)
			return
		}

		server, err := network.DecodeJSON[models.List](res)
		if err != nil {
			e.listPushFailed(user, local, err)
			return
		}

		merged := local
		// The server copy wins only when it is at least as fresh; a stale
		// echo must not roll back an edit made while the request flew.
		if !server.Modified.Before(local.Modified.Time) {
			merged = server
			if merged.PreviousID == "" {
				merged.PreviousID = local.PreviousID
			}
		}
		merged.State = models.StateSynced

		if err = e.store.UpdateList(ctx, user.ID, merged); err != nil {
			return
		}
		e.changes.listEdited(merged)
	})
}

// delList asks the server to delete a list, then removes the local rows.
func (e *Engine) delList(user models.User, list models.List) {
	ctx := e.ctx
	query := url.Values{"modified": {list.Modified.Format(models.TimeFormat)}}

	e.send(http.MethodDelete, network.EndpointList(user.ID, list.ID), query, nil, func(res network.Result) {
		if res.Err != nil {
			serr, recoverable := classifyPushError(res.Err)
			switch {
			case recoverable:
				// Leave state DELETE; retried next tick.
				return
			case serr != nil && serr.Code == models.CodeInvalidResource:
				// Already gone server-side; proceed with the local delete.
			default:
				list.State = models.StateError
				_ = e.store.UpdateList(ctx, user.ID, list)
				e.revertList(user, list)
				return
			}
		}

		e.dropListLocally(user, list)
	})
}

// revertList resolves a list stuck in ERROR by re-fetching server truth.
// Success replaces the local row wholesale; failure means the entity is gone
// and the local rows go with it.
func (e *Engine) revertList(user models.User, list models.List) {
	ctx := e.ctx

	e.send(http.MethodGet, network.EndpointList(user.ID, list.ID), nil, nil, func(res network.Result) {
		if res.Err != nil {
			if _, recoverable := classifyPushError(res.Err); recoverable {
				return
			}
			e.dropListLocally(user, list)
			return
		}

		server, err := network.DecodeJSON[models.List](res)
		if err != nil {
			return
		}
		server.State = models.StateSynced
		if server.PreviousID == "" {
			server.PreviousID = models.FirstItemID
		}

		if err = e.store.UpdateList(ctx, user.ID, server); err != nil {
			return
		}
		e.storeServerShares(user, server)
		e.changes.listEdited(server)
		e.syncItems(user, server, models.Timestamp{})
	})
}

// dropListLocally removes the list and everything hanging off it. The items
// are loaded first so subscribers hear about the cascade, not just the list.
func (e *Engine) dropListLocally(user models.User, list models.List) {
	ctx := e.ctx
	items, _ := e.store.GetItems(ctx, user.ID, list.ID, false)
	_ = e.store.DeleteItems(ctx, user.ID, list.ID, nil, false)
	_ = e.store.CleanShares(ctx, user.ID, list.ID, nil)
	if err := e.store.DeleteList(ctx, user.ID, list.ID); err != nil {
		return
	}
	for _, item := range items {
		e.changes.itemDeleted(item)
	}
	e.changes.listDeleted(list)
}

func (e *Engine) listPushFailed(user models.User, list models.List, err error) {
	ctx := e.ctx
	serr, recoverable := classifyPushError(err)
	switch {
	case recoverable:
		list.State = models.StateToSync
		_ = e.store.UpdateList(ctx, user.ID, list)
	case serr != nil && serr.Code == models.CodeInvalidResource:
		e.dropListLocally(user, list)
	default:
		list.State = models.StateError
		_ = e.store.UpdateList(ctx, user.ID, list)
		e.revertList(user, list)
	}
}

// pushItems uploads the dirty items of one list.
func (e *Engine) pushItems(user models.User, list models.List) {
	dirty, err := e.store.GetItems(e.ctx, user.ID, list.ID, true)
	if err != nil {
		return
	}
	for _, item := range dirty {
		switch item.State {
		case models.StateToSync:
			e.putItem(user, item)
		case models.StateDelete:
			e.delItem(user, item)
		case models.StateError:
			e.revertItem(user, item)
		}
	}
}

func (e *Engine) putItem(user models.User, item models.Item) {
	ctx := e.ctx
	item.State = models.StateSyncing
	if err := e.store.UpdateItem(ctx, user.ID, item); err != nil {
		return
	}

	local := item
	e.send(http.MethodPut, network.EndpointItem(user.ID, local.ListID, local.ID), nil, local, func(res network.Result) {
		if res.Err != nil {
			e.itemPushFailed(user, local, res.Err)
			return
		}

		server, err := network.DecodeJSON[models.Item](res)
		if err != nil {
			e.itemPushFailed(user, local, err)
			return
		}

		merged := local
		if !server.Modified.Before(local.Modified.Time) {
			merged = server
			merged.ListID = local.ListID
			if merged.PreviousID == "" {
				merged.PreviousID = local.PreviousID
			}
		}
		merged.State = models.StateSynced

		if err = e.store.UpdateItem(ctx, user.ID, merged); err != nil {
			return
		}
		e.changes.itemEdited(merged)
	})
}

func (e *Engine) delItem(user models.User, item models.Item) {
	ctx := e.ctx
	query := url.Values{"modified": {item.Modified.Format(models.TimeFormat)}}

	e.send(http.MethodDelete, network.EndpointItem(user.ID, item.ListID, item.ID), query, nil, func(res network.Result) {
		if res.Err != nil {
			serr, recoverable := classifyPushError(res.Err)
			switch {
			case recoverable:
				return
			case serr != nil && serr.Code == models.CodeInvalidResource:
			default:
				item.State = models.StateError
				_ = e.store.UpdateItem(ctx, user.ID, item)
				e.revertItem(user, item)
				return
			}
		}

		if err := e.store.DeleteItem(ctx, user.ID, item.ID); err != nil {
			return
		}
		e.changes.itemDeleted(item)
	})
}

func (e *Engine) revertItem(user models.User, item models.Item) {
	ctx := e.ctx

	e.send(http.MethodGet, network.EndpointItem(user.ID, item.ListID, item.ID), nil, nil, func(res network.Result) {
		if res.Err != nil {
			if _, recoverable := classifyPushError(res.Err); recoverable {
				return
			}
			if err := e.store.DeleteItem(ctx, user.ID, item.ID); err != nil {
				return
			}
			e.changes.itemDeleted(item)
			return
		}

		server, err := network.DecodeJSON[models.Item](res)
		if err != nil {
			return
		}
		server.ListID = item.ListID
		server.State = models.StateSynced
		if server.PreviousID == "" {
			server.PreviousID = models.FirstItemID
		}

		if err = e.store.UpdateItem(ctx, user.ID, server); err != nil {
			return
		}
		e.changes.itemEdited(server)
	})
}

func (e *Engine) itemPushFailed(user models.User, item models.Item, err error) {
	ctx := e.ctx
	serr, recoverable := classifyPushError(err)
	switch {
	case recoverable:
		item.State = models.StateToSync
		_ = e.store.UpdateItem(ctx, user.ID, item)
	case serr != nil && serr.Code == models.CodeInvalidResource:
		if derr := e.store.DeleteItem(ctx, user.ID, item.ID); derr == nil {
			e.changes.itemDeleted(item)
		}
	default:
		item.State = models.StateError
		_ = e.store.UpdateItem(ctx, user.ID, item)
		e.revertItem(user, item)
	}
}

// pushShares uploads the dirty shares of one list.
func (e *Engine) pushShares(user models.User, list models.List) {
	dirty, err := e.store.GetShares(e.ctx, user.ID, list.ID, true)
	if err != nil {
		return
	}
	for _, share := range dirty {
		switch share.State {
		case models.StateToSync, models.StateError:
			e.putShare(user, share)
		case models.StateDelete:
			e.delShare(user, share)
		}
	}
}

func (e *Engine) putShare(user models.User, share models.Share) {
	ctx := e.ctx
	share.State = models.StateSyncing
	if err := e.store.UpsertShare(ctx, user.ID, share); err != nil {
		return
	}

	local := share
	e.send(http.MethodPut, network.EndpointShare(user.ID, local.ListID, local.Email), nil, local, func(res network.Result) {
		if res.Err != nil {
			serr, recoverable := classifyPushError(res.Err)
			switch {
			case recoverable:
				local.State = models.StateToSync
				_ = e.store.UpsertShare(ctx, user.ID, local)
			case serr != nil && (serr.FailedOnField != "" || serr.Code == models.CodeInvalidResource):
				// The server names the offending field (a bad email, most
				// likely). The share can never succeed; drop it.
				_ = e.store.DeleteShare(ctx, user.ID, local.ListID, local.Email)
			default:
				local.State = models.StateError
				_ = e.store.UpsertShare(ctx, user.ID, local)
			}
			return
		}

		server, err := network.DecodeJSON[models.Share](res)
		if err != nil {
			server = local
		}
		server.ListID = local.ListID
		server.Email = local.Email
		server.State = models.StateSynced
		_ = e.store.UpsertShare(ctx, user.ID, server)
	})
}

func (e *Engine) delShare(user models.User, share models.Share) {
	ctx := e.ctx

	e.send(http.MethodDelete, network.EndpointShare(user.ID, share.ListID, share.Email), nil, nil, func(res network.Result) {
		if res.Err != nil {
			serr, recoverable := classifyPushError(res.Err)
			switch {
			case recoverable:
				return
			case serr != nil && serr.Code == models.CodeInvalidResource:
				// Gone already; finish the local side below.
			default:
				share.State = models.StateError
				_ = e.store.UpsertShare(ctx, user.ID, share)
				return
			}
		}

		if share.Email == user.Email {
			// Removing your own share is leaving the list: everything local
			// about it goes too.
			if list, err := e.store.GetList(ctx, user.ID, share.ListID); err == nil {
				e.dropListLocally(user, list)
				return
			}
		}
		_ = e.store.DeleteShare(ctx, user.ID, share.ListID, share.Email)
	})
}

// classifyPushError splits a push failure into the three behaviours the
// protocol distinguishes: recoverable (no response at all, retry silently),
// definitive resource errors, and everything else (ERROR + revert).
func classifyPushError(err error) (serr *models.ServerError, recoverable bool) {
	var se *models.ServerError
	if errors.As(err, &se) {
		return se, se.Code == models.CodeNoResponse
	}
	return nil, false
}

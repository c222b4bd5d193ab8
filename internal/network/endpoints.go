package network

import (
	"fmt"
	"net/url"
)

// Endpoint builders for the v2 API. Paths are always absolute and relative to
// the configured base URL; user-supplied segments (emails in particular) are
// escaped here so callers never think about encoding.

// EndpointSessions is the session lifecycle endpoint. Requests against it run
// with NoAuth set.
const EndpointSessions = "/v2/sessions"

// EndpointLists returns the collection of a user's shopping lists.
func EndpointLists(userID int64) string {
	return fmt.Sprintf("/v2/users/%d/shoppinglists", userID)
}

// EndpointList returns a single list resource.
func EndpointList(userID int64, listID string) string {
	return fmt.Sprintf("/v2/users/%d/shoppinglists/%s", userID, url.PathEscape(listID))
}

// EndpointListModified returns the cheap probe resource carrying only the
// list's server-side modification timestamp.
func EndpointListModified(userID int64, listID string) string {
	return EndpointList(userID, listID) + "/modified"
}

// EndpointItems returns a list's item collection.
func EndpointItems(userID int64, listID string) string {
	return EndpointList(userID, listID) + "/items"
}

// EndpointItem returns a single item resource.
func EndpointItem(userID int64, listID, itemID string) string {
	return EndpointItems(userID, listID) + "/" + url.PathEscape(itemID)
}

// EndpointShares returns a list's share collection.
func EndpointShares(userID int64, listID string) string {
	return EndpointList(userID, listID) + "/shares"
}

// EndpointShare returns the share resource for one recipient email.
func EndpointShare(userID int64, listID, email string) string {
	return EndpointShares(userID, listID) + "/" + url.PathEscape(email)
}

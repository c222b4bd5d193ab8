package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// FirstItemID is the sentinel previous_id of the head of an ordering chain.
// Exactly one list per user (and one item per list) points at it.
const FirstItemID = "00000000-0000-0000-0000-000000000000"

// ListTypeShopping is the default list type assigned to new lists.
const ListTypeShopping = "shopping_list"

// List is a user's shopping list. Lists form a linked chain through
// PreviousID: the newest list points at FirstItemID and every other list
// points at the one before it.
type List struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerID    int64     `json:"owner,omitempty"`
	Type       string    `json:"type,omitempty"`
	PreviousID string    `json:"previous_id"`
	Modified   Timestamp `json:"modified"`
	State      SyncState `json:"-"`

	// Shares is the share set embedded in server list payloads. It is not
	// persisted on the list row; the store keeps shares in their own table.
	Shares []Share `json:"shares,omitempty"`
}

// Item is a single entry in a shopping list. Items chain through PreviousID
// the same way lists do, scoped to their list.
type Item struct {
	ID          string    `json:"id"`
	ListID      string    `json:"shopping_list_id"`
	Description string    `json:"description"`
	Count       int       `json:"count"`
	Ticked      bool      `json:"tick"`
	Creator     string    `json:"creator,omitempty"`
	PreviousID  string    `json:"previous_id"`
	Modified    Timestamp `json:"modified"`
	State       SyncState `json:"-"`
}

// Share grants a user (identified by email) access to a list. Identity is the
// (ListID, Email) pair.
type Share struct {
	ListID   string    `json:"shopping_list_id,omitempty"`
	Email    string    `json:"email"`
	Access   string    `json:"access,omitempty"`
	Accepted bool      `json:"accepted,omitempty"`
	State    SyncState `json:"-"`
}

// Timestamp is a time.Time that marshals in the server's wire format.
type Timestamp struct {
	time.Time
}

// TimeFormat is the date layout used by the list API.
const TimeFormat = "2006-01-02T15:04:05-0700"

func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimeFormat) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.Parse(TimeFormat, s)
	if err != nil {
		// Some endpoints return RFC3339 with a colon in the zone offset.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// Value stores the timestamp in the wire format so rows stay comparable to
// server payloads.
func (t Timestamp) Value() (driver.Value, error) {
	return t.Format(TimeFormat), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := time.Parse(TimeFormat, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

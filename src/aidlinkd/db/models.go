package db

import (
	"encoding/json"
	"time"
)

// PostState describes the lifecycle state of a post
type PostState string

const (
	// PostStateActive marks posts visible in the public feed
	PostStateActive PostState = "active"
	// PostStateInactive marks posts hidden from the feed
	PostStateInactive PostState = "inactive"
)

// Need categories recognized by the platform. Free-text searches only
// match against needs when the query equals one of these values.
const (
	NeedMoney      = "money"
	NeedGoods      = "goods"
	NeedServices   = "services"
	NeedVolunteers = "volunteers"
	NeedFood       = "food"
	NeedOther      = "other"
)

// NeedCategories lists every recognized need category.
var NeedCategories = []string{
	NeedMoney,
	NeedGoods,
	NeedServices,
	NeedVolunteers,
	NeedFood,
	NeedOther,
}

// IsNeedCategory reports whether value is a recognized need category.
func IsNeedCategory(value string) bool {
	for _, n := range NeedCategories {
		if n == value {
			return true
		}
	}
	return false
}

// Contact is a single way to reach a post or profile owner
type Contact struct {
	Type    string `json:"type"`
	Contact string `json:"contact"`
}

// Post represents a community need posted by a user or organization
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Locations     []string  `json:"locations"`
	Needs         []string  `json:"needs"`
	Schedule      string    `json:"schedule,omitempty"`
	Contacts      []Contact `json:"contacts"`
	State         PostState `json:"state"`
	Slug          string    `json:"slug"`
	CreatedUserID string    `json:"-"`
	CreatedBy     string    `json:"created_by"` // owner slug, filled by joins
	UpdatedBy     string    `json:"updated_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostHistory is an append-only snapshot of a post taken immediately
// before an update was applied.
type PostHistory struct {
	ID          int64     `json:"id"`
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	Needs       []string  `json:"needs"`
	Schedule    string    `json:"schedule,omitempty"`
	Contacts    []Contact `json:"contacts"`
	State       PostState `json:"state"`
	Slug        string    `json:"slug"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdatePostPayload carries the replacement field values for a post update
type UpdatePostPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	Needs       []string  `json:"needs"`
	Schedule    string    `json:"schedule"`
	Contacts    []Contact `json:"contacts"`
	State       PostState `json:"state"`
}

// marshalJSON encodes a value as JSON text for storage, mapping nil
// slices to empty arrays so scans never see SQL NULL.
func marshalJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

// unmarshalStrings decodes a JSON text column into a string slice
func unmarshalStrings(data string) []string {
	if data == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return []string{}
	}
	return out
}

// unmarshalContacts decodes a JSON text column into a contact list
func unmarshalContacts(data string) []Contact {
	if data == "" {
		return []Contact{}
	}
	var out []Contact
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return []Contact{}
	}
	return out
}

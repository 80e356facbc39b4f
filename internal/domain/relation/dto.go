package relation

import "time"

// UpsertInput records one engagement of a broker with a client. Empty
// optional snapshot fields never overwrite stored values.
type UpsertInput struct {
	BrokerID     string
	ClientID     string
	ClientName   string
	BrokerName   string
	EngagementAt time.Time
	Email        string
	Phone        string
	Address      string
	Notes        string
}

// SnapshotInput refreshes the denormalised contact copy. Empty fields are
// left untouched.
type SnapshotInput struct {
	ClientName string
	BrokerName string
	Email      string
	Phone      string
	Address    string
	Notes      string
}

// Page is one page of a broker's active relations.
type Page struct {
	Relations  []Relation `json:"relations"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

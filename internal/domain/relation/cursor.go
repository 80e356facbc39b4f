package relation

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// cursor marks the last row of a page in (updated_at DESC, id DESC) order.
// It is bound to the broker it was issued for.
type cursor struct {
	BrokerID  string    `json:"b"`
	UpdatedAt time.Time `json:"u"`
	ID        string    `json:"i"`
}

func encodeCursor(c cursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token, brokerID string) (*cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	if c.BrokerID != brokerID || c.ID == "" || c.UpdatedAt.IsZero() {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}

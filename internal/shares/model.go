package shares

import (
	"encoding/json"
	"time"
)

// Share is an arbitrary JSON document stored under a short public id.
type Share struct {
	ID        string          `json:"shareId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

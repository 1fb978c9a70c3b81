package domain

import (
	"encoding/json"
	"time"
)

// Setting is a free-form key/value pair used by the surrounding UI and
// config code. Value is raw JSON, which covers every structurally
// serializable shape (null, bool, number, string, array, object) without the
// store imposing a schema. Last write wins.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

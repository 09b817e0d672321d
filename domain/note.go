// server/domain/note.go
package domain

import (
	"encoding/json"
	"time"
)

// TimeLayout is the wire format for note timestamps: ISO-8601, UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type noteJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(TimeLayout),
		UpdatedAt: n.UpdatedAt.UTC().Format(TimeLayout),
	})
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	created, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return err
	}
	updated, err := time.Parse(time.RFC3339Nano, raw.UpdatedAt)
	if err != nil {
		return err
	}
	*n = Note{
		ID:        raw.ID,
		Title:     raw.Title,
		Content:   raw.Content,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}
	return nil
}

package domain_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/domain"
)

func TestNoteJSON(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	note := domain.Note{
		ID:        "1",
		Title:     "A",
		Content:   "B",
		CreatedAt: created,
		UpdatedAt: created.Add(1500 * time.Millisecond),
	}

	data, err := json.Marshal(note)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1",
		"title": "A",
		"content": "B",
		"createdAt": "2025-03-04T05:06:07.000Z",
		"updatedAt": "2025-03-04T05:06:08.500Z"
	}`, string(data))

	var back domain.Note
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, note, back)
}

func TestNoteJSONConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	note := domain.Note{
		CreatedAt: time.Date(2025, 3, 4, 8, 0, 0, 0, loc),
		UpdatedAt: time.Date(2025, 3, 4, 8, 0, 0, 0, loc),
	}

	data, err := json.Marshal(note)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":"2025-03-04T05:00:00.000Z"`)
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err     *domain.Error
		status  int
		message string
	}{
		{domain.ErrValidation, http.StatusBadRequest, "Title and content are required"},
		{domain.ErrMalformedRequest, http.StatusBadRequest, "Invalid request body"},
		{domain.ErrNotFound, http.StatusNotFound, "Note not found"},
	}
	for _, tc := range cases {
		t.Run(tc.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Kind.Status())
			assert.Equal(t, tc.message, tc.err.Error())

			wrapped := fmt.Errorf("update note 3: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.err)
		})
	}

	assert.NotErrorIs(t, domain.ErrNotFound, domain.ErrValidation)
}

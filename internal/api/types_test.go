package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/cookbook/backend/internal/model"
)

func TestFormatSubmittedAt(t *testing.T) {
	assert.Equal(t, "May 1, 2024 at 12:30 PM", formatSubmittedAt("2024-05-01T12:30:00Z"))
	assert.Equal(t, "December 31, 2023 at 11:59 PM", formatSubmittedAt("2023-12-31T23:59:00Z"))
}

func TestFormatSubmittedAtFallsBackToRaw(t *testing.T) {
	// A timestamp that does not parse is displayed as-is
	assert.Equal(t, "not-a-timestamp", formatSubmittedAt("not-a-timestamp"))
	assert.Equal(t, "", formatSubmittedAt(""))
}

func TestToRecipeResponsePlaceholderName(t *testing.T) {
	recipe := &model.Recipe{CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	resp := toRecipeResponse(recipe)
	assert.Equal(t, "Untitled recipe", resp.Name)
	assert.Equal(t, "2024-05-01T12:00:00Z", resp.CreatedAt)
	assert.Equal(t, "May 1, 2024 at 12:00 PM", resp.SubmittedAt)
}

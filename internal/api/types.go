package api

import (
	"time"

	"github.com/pageza/cookbook/backend/internal/model"
	"github.com/pageza/cookbook/backend/internal/service"
)

// TextSubmissionRequest is the payload of a typed recipe submission
type TextSubmissionRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// RecipeResponse is the listing/display shape of a recipe
type RecipeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Text        *string `json:"text,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	SubmittedAt string  `json:"submitted_at"`
}

func toRecipeResponse(r *model.Recipe) RecipeResponse {
	name := r.Name
	if name == "" {
		name = service.UntitledRecipeName
	}
	raw := r.CreatedAt.Format(time.RFC3339)
	return RecipeResponse{
		ID:          r.ID.String(),
		Name:        name,
		Description: r.Description,
		Text:        r.Text,
		ImageURL:    r.ImageURL,
		CreatedAt:   raw,
		SubmittedAt: formatSubmittedAt(raw),
	}
}

// formatSubmittedAt renders a stored timestamp for display. A value that does
// not parse is shown as-is; one bad timestamp never fails the whole listing.
func formatSubmittedAt(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("January 2, 2006 at 3:04 PM")
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	_ "image/jpeg"
	_ "image/png"

	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/model"
)

// UntitledRecipeName is substituted when an image submission carries no name
const UntitledRecipeName = "Untitled recipe"

var (
	// ErrNameRequired is returned by the text pipeline when the name is empty
	ErrNameRequired = errors.New("recipe name is required")
	// ErrRecipeTextRequired is returned when both ingredients and
	// instructions are empty
	ErrRecipeTextRequired = errors.New("ingredients or instructions are required")
	// ErrImageRequired is returned by the image pipeline when no image was
	// provided
	ErrImageRequired = errors.New("an image is required")
	// ErrImageDecode is returned when the uploaded bytes are not a decodable
	// image
	ErrImageDecode = errors.New("could not decode image")
	// ErrUploadFailed is returned when the blob store rejected the upload
	ErrUploadFailed = errors.New("image upload failed")
	// ErrOCRUnavailable is returned by ExtractText when no engine is
	// configured
	ErrOCRUnavailable = errors.New("OCR is not available")
)

// TextSubmission carries the fields of a typed recipe submission
type TextSubmission struct {
	Name         string
	Description  string
	Ingredients  string
	Instructions string
}

// ImageSubmission carries the fields of an image recipe submission. Text,
// when non-nil, is the human-edited extraction and suppresses the engine:
// the submitter is the final arbiter of OCR output.
type ImageSubmission struct {
	Name        string
	Description string
	Notes       string
	Text        *string
	Filename    string
	Data        []byte
}

// RecipeService runs the submission and listing pipelines
type RecipeService struct {
	db         *gorm.DB
	storage    BlobStore
	ocr        OCREngine // nil when the capability is unavailable
	defaultExt string
}

// NewRecipeService creates a new RecipeService instance. ocr may be nil when
// the engine is unavailable; the image pipeline then skips extraction.
func NewRecipeService(db *gorm.DB, storage BlobStore, ocr OCREngine, defaultExt string) *RecipeService {
	return &RecipeService{
		db:         db,
		storage:    storage,
		ocr:        ocr,
		defaultExt: defaultExt,
	}
}

// OCRAvailable reports whether the boot-time capability check found an engine
func (s *RecipeService) OCRAvailable() bool {
	return s.ocr != nil
}

// SubmitText validates a typed submission and inserts the record. No blob is
// involved, so a store failure leaves no partial state.
func (s *RecipeService) SubmitText(ctx context.Context, sub TextSubmission) (*model.Recipe, error) {
	if sub.Name == "" {
		return nil, ErrNameRequired
	}
	if sub.Ingredients == "" && sub.Instructions == "" {
		return nil, ErrRecipeTextRequired
	}

	body := ComposeTextBody(sub.Ingredients, sub.Instructions)
	recipe := &model.Recipe{
		Name:        sub.Name,
		Description: optional(sub.Description),
		Text:        &body,
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return recipe, nil
}

// SubmitImage validates an image submission, extracts text when no override
// was supplied, uploads the image and inserts the record. The returned bool
// reports whether extraction degraded to empty text because of an engine
// failure.
//
// Upload and insert are two independent calls with no transaction spanning
// them: an insert failure after a successful upload leaves the blob orphaned.
func (s *RecipeService) SubmitImage(ctx context.Context, sub ImageSubmission) (*model.Recipe, bool, error) {
	if len(sub.Data) == 0 {
		return nil, false, ErrImageRequired
	}

	if _, _, err := image.Decode(bytes.NewReader(sub.Data)); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	var text string
	var ocrDegraded bool
	switch {
	case sub.Text != nil:
		text = *sub.Text
	case s.ocr != nil:
		extracted, err := s.ocr.ExtractText(ctx, sub.Data)
		if err != nil {
			log.Printf("[RecipeService] OCR failed, continuing without extracted text: %v", err)
			ocrDegraded = true
		} else {
			text = extracted
		}
	}

	ext := NormalizeExtension(sub.Filename, s.defaultExt)
	key := recipeObjectKey(ext)
	imageURL, err := s.storage.Upload(ctx, key, sub.Data, ContentTypeForExtension(ext))
	if err != nil {
		return nil, ocrDegraded, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	name := sub.Name
	if name == "" {
		name = UntitledRecipeName
	}

	recipe := &model.Recipe{
		Name:        name,
		Description: optional(sub.Description),
		Text:        ComposeImageBody(text, sub.Notes),
		ImageURL:    &imageURL,
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		// The uploaded object is left in place; there is no compensating
		// delete for a failed insert.
		log.Printf("[RecipeService] insert failed after upload, object %s is orphaned: %v", key, err)
		return nil, ocrDegraded, fmt.Errorf("failed to save recipe: %w", err)
	}
	return recipe, ocrDegraded, nil
}

// ExtractText runs OCR on an uploaded image so the submitter can review and
// edit the result before committing it
func (s *RecipeService) ExtractText(ctx context.Context, data []byte) (string, error) {
	if s.ocr == nil {
		return "", ErrOCRUnavailable
	}
	if len(data) == 0 {
		return "", ErrImageRequired
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return s.ocr.ExtractText(ctx, data)
}

// ListRecipes fetches all recipes, most recent first
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	return recipes, nil
}

// ComposeTextBody builds the persisted body of a typed submission
func ComposeTextBody(ingredients, instructions string) string {
	return fmt.Sprintf("Ingredients:\n%s\n\nInstructions:\n%s", ingredients, instructions)
}

// ComposeImageBody builds the persisted body of an image submission from the
// (possibly edited) extracted text and the free-form notes. When both are
// empty the body is absent, not an empty string.
func ComposeImageBody(text, notes string) *string {
	var body string
	if text != "" {
		body += fmt.Sprintf("Recipe Details/OCR Text:\n%s\n\n", text)
	}
	if notes != "" {
		body += fmt.Sprintf("User Notes:\n%s", notes)
	}
	if body == "" {
		return nil
	}
	return &body
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// RecipeHandler exposes the submission and listing pipelines over HTTP
type RecipeHandler struct {
	service *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: recipeService}
}

// RegisterRoutes wires the recipe routes. limiter may be nil when Redis is
// not configured; submissions then run unthrottled.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	recipes := router.Group("/recipes")
	recipes.GET("", h.ListRecipes)

	submissions := recipes.Group("")
	if limiter != nil {
		submissions.Use(limiter.RateLimitMiddleware())
	}
	{
		submissions.POST("/text", h.SubmitText)
		submissions.POST("/image", h.SubmitImage)
		submissions.POST("/image/ocr", h.ExtractText)
	}
}

// SubmitText handles a typed recipe submission
func (h *RecipeHandler) SubmitText(c *gin.Context) {
	var req TextSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.service.SubmitText(c.Request.Context(), service.TextSubmission{
		Name:         req.Name,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	})
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) || errors.Is(err, service.ErrRecipeTextRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least a name and some ingredients or instructions."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": toRecipeResponse(recipe)})
}

// SubmitImage handles an image recipe submission (multipart). The optional
// "text" field carries the human-edited OCR output; when present it is used
// verbatim and the engine is not invoked.
func (h *RecipeHandler) SubmitImage(c *gin.Context) {
	data, filename, ok := readImagePart(c)
	if !ok {
		return
	}

	sub := service.ImageSubmission{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Notes:       c.PostForm("notes"),
		Filename:    filename,
		Data:        data,
	}
	if text, present := c.GetPostForm("text"); present {
		sub.Text = &text
	}

	recipe, ocrDegraded, err := h.service.SubmitImage(c.Request.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload an image to submit."})
		case errors.Is(err, service.ErrImageDecode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The uploaded file is not a valid image."})
		case errors.Is(err, service.ErrUploadFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not upload image."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		}
		return
	}

	resp := gin.H{"recipe": toRecipeResponse(recipe)}
	if ocrDegraded {
		resp["ocr_warning"] = "Text extraction failed; the recipe was saved without OCR text."
	}
	c.JSON(http.StatusCreated, resp)
}

// ExtractText runs OCR on an uploaded image and returns the extracted text
// for review, so the submitter can edit it before the final submission
func (h *RecipeHandler) ExtractText(c *gin.Context) {
	if !h.service.OCRAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR is not available"})
		return
	}

	data, _, ok := readImagePart(c)
	if !ok {
		return
	}

	text, err := h.service.ExtractText(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrImageDecode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "The uploaded file is not a valid image."})
			return
		}
		// Extraction is best-effort: surface a warning, not a failure, and
		// let the submitter type the text by hand.
		c.JSON(http.StatusOK, gin.H{"text": "", "warning": "Text extraction failed; please enter the recipe text manually."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// ListRecipes returns all recipes, most recent first
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.service.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, toRecipeResponse(&recipes[i]))
	}

	c.JSON(http.StatusOK, gin.H{"recipes": responses})
}

// readImagePart reads the required "image" multipart file. It writes the
// error response itself and reports success through the bool.
func readImagePart(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload an image to submit."})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image."})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image."})
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/cookbook/backend/internal/model"
	"github.com/pageza/cookbook/backend/internal/service"
)

type fakeBlobStore struct {
	objects map[string][]byte
	err     error
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://bucket.example.com/" + key, nil
}

type fakeOCREngine struct {
	text string
	err  error
}

func (f *fakeOCREngine) ExtractText(ctx context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func setupRecipeRouter(t *testing.T, store service.BlobStore, ocr service.OCREngine) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Recipe{}))

	handler := NewRecipeHandler(service.NewRecipeService(db, store, ocr, "jpg"))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), nil)
	return router, db
}

func testImagePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// multipartBody builds a multipart request body with the given form fields
// and an optional image file part
func multipartBody(t *testing.T, fields map[string]string, filename string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if imageData != nil {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSubmitTextRecipe(t *testing.T) {
	router, db := setupRecipeRouter(t, &fakeBlobStore{}, nil)

	payload := map[string]string{
		"name":         "Pancakes",
		"description":  "Fluffy",
		"ingredients":  "2 eggs, 1 cup flour",
		"instructions": "Mix and fry.",
	}
	jsonData, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/recipes/text", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response, "recipe")
	recipeData := response["recipe"].(map[string]interface{})
	assert.Equal(t, "Pancakes", recipeData["name"])
	assert.Equal(t, "Ingredients:\n2 eggs, 1 cup flour\n\nInstructions:\nMix and fry.", recipeData["text"])
	assert.NotContains(t, recipeData, "image_url")

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitTextRecipeValidation(t *testing.T) {
	router, db := setupRecipeRouter(t, &fakeBlobStore{}, nil)

	for _, payload := range []map[string]string{
		{"ingredients": "2 eggs"}, // missing name
		{"name": "Pancakes"},      // missing ingredients and instructions
	} {
		jsonData, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/recipes/text", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, 400, w.Code)
	}

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitImageRecipe(t *testing.T) {
	store := &fakeBlobStore{}
	router, _ := setupRecipeRouter(t, store, &fakeOCREngine{text: "2 eggs"})

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Omelette",
		"notes": "salt to taste",
	}, "omelette.png", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	recipeData := response["recipe"].(map[string]interface{})
	assert.Equal(t, "Omelette", recipeData["name"])
	assert.Equal(t, "Recipe Details/OCR Text:\n2 eggs\n\nUser Notes:\nsalt to taste", recipeData["text"])
	assert.Contains(t, recipeData["image_url"], "https://bucket.example.com/recipes/")
	assert.NotContains(t, response, "ocr_warning")
	assert.Len(t, store.objects, 1)
}

func TestSubmitImageRecipeEditedText(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, &fakeOCREngine{text: "raw engine output"})

	body, contentType := multipartBody(t, map[string]string{
		"text": "2 eggs, corrected",
	}, "card.jpg", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	recipeData := response["recipe"].(map[string]interface{})
	assert.Equal(t, "Untitled recipe", recipeData["name"])
	assert.Equal(t, "Recipe Details/OCR Text:\n2 eggs, corrected\n\n", recipeData["text"])
}

func TestSubmitImageRecipeMissingImage(t *testing.T) {
	store := &fakeBlobStore{}
	router, db := setupRecipeRouter(t, store, nil)

	body, contentType := multipartBody(t, map[string]string{"name": "Soup"}, "", nil)

	req := httptest.NewRequest("POST", "/api/v1/recipes/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Empty(t, store.objects)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitImageRecipeUploadFailure(t *testing.T) {
	store := &fakeBlobStore{err: errors.New("bucket gone")}
	router, db := setupRecipeRouter(t, store, nil)

	body, contentType := multipartBody(t, map[string]string{"name": "Soup"}, "soup.jpg", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 502, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitImageRecipeOCRWarning(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, &fakeOCREngine{err: errors.New("no tesseract")})

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Soup",
		"notes": "salt to taste",
	}, "soup.jpg", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "ocr_warning")
	recipeData := response["recipe"].(map[string]interface{})
	assert.Equal(t, "User Notes:\nsalt to taste", recipeData["text"])
}

func TestExtractTextPreview(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, &fakeOCREngine{text: "2 eggs"})

	body, contentType := multipartBody(t, nil, "card.png", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image/ocr", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "2 eggs", response["text"])
}

func TestExtractTextPreviewUnavailable(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, nil)

	body, contentType := multipartBody(t, nil, "card.png", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image/ocr", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 503, w.Code)
}

func TestExtractTextPreviewDegrades(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, &fakeOCREngine{err: errors.New("no tesseract")})

	body, contentType := multipartBody(t, nil, "card.png", testImagePNG(t))

	req := httptest.NewRequest("POST", "/api/v1/recipes/image/ocr", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "", response["text"])
	assert.Contains(t, response, "warning")
}

func TestListRecipes(t *testing.T) {
	router, db := setupRecipeRouter(t, &fakeBlobStore{}, nil)

	text := "body"
	for _, name := range []string{"first", "second"} {
		require.NoError(t, db.Create(&model.Recipe{Name: name, Text: &text}).Error)
	}

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var response map[string][]RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["recipes"], 2)
	for _, r := range response["recipes"] {
		assert.NotEmpty(t, r.SubmittedAt)
	}
}

func TestListRecipesEmpty(t *testing.T) {
	router, _ := setupRecipeRouter(t, &fakeBlobStore{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// An empty cookbook is a valid state, not an error
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"recipes": []}`, w.Body.String())
}

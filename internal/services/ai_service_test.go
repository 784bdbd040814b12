// internal/services/ai_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artistsreach/storegen-sub000/internal/config"
)

func geminiTestService(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAIService(&config.Config{
		AI: config.AIConfig{
			GeminiAPIKey:  "test-key",
			GeminiBaseURL: server.URL,
			GeminiModel:   "gemini-2.0-flash",
		},
	})
}

func geminiText(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	encoded, _ := json.Marshal(resp)
	return string(encoded)
}

func TestSuggestStoreNames(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(geminiText("```json\n[\"Brew Haven\", \"Roast Project\", \"Third Crack\", \"Extra\"]\n```")))
	})

	names, err := svc.SuggestStoreNames(context.Background(), "coffee", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brew Haven", "Roast Project", "Third Crack"}, names)
}

func TestSuggestStoreNamesMalformedOutput(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiText("Sure! Here are some great names for your store.")))
	})

	_, err := svc.SuggestStoreNames(context.Background(), "coffee", 3)
	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Raw, "Sure!")
}

func TestSuggestStoreNamesUnconfigured(t *testing.T) {
	svc := NewAIService(&config.Config{})
	_, err := svc.SuggestStoreNames(context.Background(), "coffee", 3)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestGenerateHeroCopy(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiText(`Here you go: {"title": "Wake Up Better", "description": "Single origin beans, roasted weekly."}`)))
	})

	copy, err := svc.GenerateHeroCopy(context.Background(), "Brew Haven", "coffee")
	require.NoError(t, err)
	assert.Equal(t, "Wake Up Better", copy.Title)
	assert.Equal(t, "Single origin beans, roasted weekly.", copy.Description)
}

func TestGenerateHeroCopyRequiresTitle(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiText(`{"description": "no title here"}`)))
	})

	_, err := svc.GenerateHeroCopy(context.Background(), "Brew Haven", "coffee")
	var malformed *MalformedOutputError
	assert.ErrorAs(t, err, &malformed)
}

func TestGenerateTextUpstreamError(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := svc.GenerateProductDescription(context.Background(), "Mug", "coffee")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSearchImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "coffee", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"photos": [
			{"alt": "Pour over", "photographer": "Ana", "src": {"large": "https://img.test/1.jpg"}},
			{"alt": "Beans", "photographer": "Max", "src": {"large": "https://img.test/2.jpg"}}
		]}`))
	}))
	t.Cleanup(server.Close)

	svc := NewAIService(&config.Config{
		AI: config.AIConfig{PexelsAPIKey: "pexels-key", PexelsBaseURL: server.URL},
	})

	images, err := svc.SearchImages(context.Background(), "coffee", 2)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.test/1.jpg", images[0].URL)
	assert.Equal(t, "Ana", images[0].Photographer)
	assert.Equal(t, "Pour over", images[0].Alt)
}

func TestSearchImagesWithoutKey(t *testing.T) {
	svc := NewAIService(&config.Config{})
	_, err := svc.SearchImages(context.Background(), "coffee", 2)
	assert.ErrorIs(t, err, ErrAINotConfigured)
}

func TestRemoveBackground(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bg-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image_file")
		require.NoError(t, err)
		w.Write([]byte("cleaned-bytes"))
	}))
	t.Cleanup(server.Close)

	svc := NewAIService(&config.Config{
		AI: config.AIConfig{RemoveBgAPIKey: "bg-key", RemoveBgURL: server.URL},
	})

	got := svc.RemoveBackground(context.Background(), []byte("original"))
	assert.Equal(t, []byte("cleaned-bytes"), got)
}

func TestRemoveBackgroundFallsBackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad image", http.StatusPaymentRequired)
	}))
	t.Cleanup(server.Close)

	original := []byte("original")

	svc := NewAIService(&config.Config{
		AI: config.AIConfig{RemoveBgAPIKey: "bg-key", RemoveBgURL: server.URL},
	})
	assert.Equal(t, original, svc.RemoveBackground(context.Background(), original))

	// No key configured skips the call entirely.
	svc = NewAIService(&config.Config{})
	assert.Equal(t, original, svc.RemoveBackground(context.Background(), original))

	// Unreachable endpoint keeps the original too.
	svc = NewAIService(&config.Config{
		AI: config.AIConfig{RemoveBgAPIKey: "bg-key", RemoveBgURL: "http://127.0.0.1:1"},
	})
	assert.Equal(t, original, svc.RemoveBackground(context.Background(), original))
}

func TestGenerateLogo(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Contains(t, req.GenerationConfig.ResponseModalities, "IMAGE")

		w.Write([]byte(`{"candidates": [{"content": {"parts": [
			{"inlineData": {"mimeType": "image/png", "data": "cG5nLWJ5dGVz"}}
		]}}]}`))
	})

	logo, err := svc.GenerateLogo(context.Background(), "Brew Haven", "coffee")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), logo)
}

func TestGenerateLogoWithoutImage(t *testing.T) {
	svc := geminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiText("no image, only words")))
	})

	_, err := svc.GenerateLogo(context.Background(), "Brew Haven", "coffee")
	var malformed *MalformedOutputError
	assert.ErrorAs(t, err, &malformed)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n[\"a\"]\n```":             `["a"]`,
		"```\n{\"k\": 1}\n```":              `{"k": 1}`,
		`prose before ["x", "y"] and after`: `["x", "y"]`,
		`{"plain": true}`:                   `{"plain": true}`,
		"just words":                        "just words",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractJSON(in), in)
	}
}

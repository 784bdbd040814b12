// internal/services/ai_service.go
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Artistsreach/storegen-sub000/internal/config"
)

var ErrAINotConfigured = errors.New("ai provider is not configured")

// MalformedOutputError reports model output that could not be parsed into the
// structure a prompt asked for. Callers fall back to deterministic content.
type MalformedOutputError struct {
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return "model returned output in an unexpected shape"
}

type AIService struct {
	config     *config.Config
	httpClient *http.Client
}

type HeroCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StockImage struct {
	URL          string `json:"url"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
}

func NewAIService(config *config.Config) *AIService {
	return &AIService{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *AIService) IsConfigured() bool {
	return s.config.AI.GeminiAPIKey != ""
}

// SuggestStoreNames asks the model for candidate store names for a niche.
func (s *AIService) SuggestStoreNames(ctx context.Context, niche string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}
	prompt := fmt.Sprintf(
		"Suggest %d short, brandable store names for an online store in the %q niche. "+
			"Respond with a JSON array of strings and nothing else.", count, niche)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(extractJSON(text)), &names); err != nil {
		return nil, &MalformedOutputError{Raw: text}
	}
	if len(names) == 0 {
		return nil, &MalformedOutputError{Raw: text}
	}
	if len(names) > count {
		names = names[:count]
	}
	return names, nil
}

// GenerateHeroCopy produces a hero title and description for a store.
func (s *AIService) GenerateHeroCopy(ctx context.Context, storeName, niche string) (*HeroCopy, error) {
	prompt := fmt.Sprintf(
		"Write landing page hero copy for %q, an online store in the %q niche. "+
			"Respond with a JSON object with keys \"title\" (under 8 words) and "+
			"\"description\" (one sentence) and nothing else.", storeName, niche)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var copy HeroCopy
	if err := json.Unmarshal([]byte(extractJSON(text)), &copy); err != nil {
		return nil, &MalformedOutputError{Raw: text}
	}
	if copy.Title == "" {
		return nil, &MalformedOutputError{Raw: text}
	}
	return &copy, nil
}

// GenerateProductDescription writes marketing copy for a single product.
func (s *AIService) GenerateProductDescription(ctx context.Context, productName, niche string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a two sentence product description for %q, sold by an online store "+
			"in the %q niche. Respond with the description text only.", productName, niche)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &MalformedOutputError{Raw: text}
	}
	return text, nil
}

// GenerateLogo renders a logo image for the store and returns PNG bytes.
func (s *AIService) GenerateLogo(ctx context.Context, storeName, niche string) ([]byte, error) {
	if !s.IsConfigured() {
		return nil, ErrAINotConfigured
	}

	prompt := fmt.Sprintf(
		"A minimal flat vector logo for %q, an online store in the %s niche, "+
			"on a transparent background.", storeName, niche)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	resp, err := s.callGemini(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, decodeErr := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if decodeErr != nil {
					return nil, &MalformedOutputError{Raw: "undecodable inline image data"}
				}
				return data, nil
			}
		}
	}
	return nil, &MalformedOutputError{Raw: "no image in model response"}
}

// SearchImages queries Pexels for stock photos matching a niche.
func (s *AIService) SearchImages(ctx context.Context, query string, perPage int) ([]StockImage, error) {
	if s.config.AI.PexelsAPIKey == "" {
		return nil, ErrAINotConfigured
	}
	if perPage <= 0 {
		perPage = 6
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=%d",
		s.config.AI.PexelsBaseURL, url.QueryEscape(query), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", s.config.AI.PexelsAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	var payload struct {
		Photos []struct {
			Alt          string `json:"alt"`
			Photographer string `json:"photographer"`
			Src          struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode pexels response: %w", err)
	}

	images := make([]StockImage, 0, len(payload.Photos))
	for _, photo := range payload.Photos {
		images = append(images, StockImage{
			URL:          photo.Src.Large,
			Photographer: photo.Photographer,
			Alt:          photo.Alt,
		})
	}
	return images, nil
}

// RemoveBackground strips the background from an image via remove.bg. On any
// failure the original bytes come back so callers never lose the asset.
func (s *AIService) RemoveBackground(ctx context.Context, image []byte) []byte {
	if s.config.AI.RemoveBgAPIKey == "" {
		return image
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image_file", "image.png")
	if err != nil {
		return image
	}
	if _, err := part.Write(image); err != nil {
		return image
	}
	_ = writer.WriteField("size", "auto")
	if err := writer.Close(); err != nil {
		return image
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.AI.RemoveBgURL, &body)
	if err != nil {
		return image
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Api-Key", s.config.AI.RemoveBgAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Background removal failed, keeping original image")
		return image
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("Background removal rejected, keeping original image")
		return image
	}

	cleaned, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil || len(cleaned) == 0 {
		return image
	}
	return cleaned
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *AIService) generateText(ctx context.Context, prompt string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrAINotConfigured
	}

	resp, err := s.callGemini(ctx, geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
	}
	if builder.Len() == 0 {
		return "", &MalformedOutputError{Raw: "empty model response"}
	}
	return builder.String(), nil
}

func (s *AIService) callGemini(ctx context.Context, reqBody geminiRequest) (*geminiResponse, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		s.config.AI.GeminiBaseURL, s.config.AI.GeminiModel, url.QueryEscape(s.config.AI.GeminiAPIKey))

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	return &decoded, nil
}

// extractJSON pulls the first JSON value out of model output that may be
// wrapped in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	for _, open := range []byte{'[', '{'} {
		start := strings.IndexByte(text, open)
		if start < 0 {
			continue
		}
		close := byte(']')
		if open == '{' {
			close = '}'
		}
		end := strings.LastIndexByte(text, close)
		if end > start {
			return text[start : end+1]
		}
	}
	return strings.TrimSpace(text)
}

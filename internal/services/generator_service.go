// internal/services/generator_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// GeneratorService assembles store drafts from a free-form prompt or the
// guided questionnaire. AI output is preferred when the provider is
// configured; every path has a deterministic fallback so generation never
// fails outright.
type GeneratorService struct {
	aiService      *AIService
	storageService *StorageService
}

type WizardAnswers struct {
	StoreName    string `json:"store_name"`
	Niche        string `json:"niche" validate:"required"`
	Style        string `json:"style"`
	ProductCount int    `json:"product_count" validate:"omitempty,min=1,max=24"`
}

var fallbackPrices = []string{"19.99", "24.99", "34.99", "49.99", "59.99", "79.99"}

var fallbackProductKinds = []string{
	"Essential", "Classic", "Premium", "Starter Kit", "Deluxe Set", "Gift Bundle",
}

func NewGeneratorService(aiService *AIService, storageService *StorageService) *GeneratorService {
	return &GeneratorService{
		aiService:      aiService,
		storageService: storageService,
	}
}

// GenerateFromPrompt builds a draft from a single free-form description.
func (s *GeneratorService) GenerateFromPrompt(ctx context.Context, prompt string) (*models.StoreDraft, error) {
	niche := nicheFromPrompt(prompt)
	return s.generate(ctx, "", niche, 6)
}

// GenerateFromWizard builds a draft from the guided questionnaire answers.
func (s *GeneratorService) GenerateFromWizard(ctx context.Context, answers *WizardAnswers) (*models.StoreDraft, error) {
	count := answers.ProductCount
	if count == 0 {
		count = 6
	}
	return s.generate(ctx, answers.StoreName, answers.Niche, count)
}

func (s *GeneratorService) generate(ctx context.Context, name, niche string, productCount int) (*models.StoreDraft, error) {
	if niche == "" {
		niche = "general"
	}
	if name == "" {
		name = s.pickName(ctx, niche)
	}

	draft := &models.StoreDraft{
		Name:       name,
		Niche:      niche,
		Theme:      sources.ThemeForName(name),
		Content:    s.buildContent(ctx, name, niche),
		DataSource: models.DataSourceAI,
		Products:   s.buildProducts(ctx, niche, productCount),
	}
	draft.Description = draft.Content.HeroDescription

	s.attachImages(ctx, draft, niche)
	s.attachLogo(ctx, draft, niche)

	return draft, nil
}

func (s *GeneratorService) pickName(ctx context.Context, niche string) string {
	names, err := s.aiService.SuggestStoreNames(ctx, niche, 3)
	if err == nil && len(names) > 0 {
		return names[0]
	}
	if err != nil {
		logrus.WithError(err).Debug("Falling back to deterministic store name")
	}

	words := strings.Fields(niche)
	for i, word := range words {
		words[i] = titleCase(word)
	}
	return strings.Join(words, " ") + " Collective"
}

func (s *GeneratorService) buildContent(ctx context.Context, name, niche string) models.Content {
	content := sources.DefaultContent(&sources.ShopMetadata{Name: name})

	hero, err := s.aiService.GenerateHeroCopy(ctx, name, niche)
	if err != nil {
		logrus.WithError(err).Debug("Falling back to deterministic hero copy")
		return content
	}
	content.HeroTitle = hero.Title
	if hero.Description != "" {
		content.HeroDescription = hero.Description
	}
	return content
}

func (s *GeneratorService) buildProducts(ctx context.Context, niche string, count int) []models.ProductDraft {
	products := make([]models.ProductDraft, 0, count)
	for i := 0; i < count; i++ {
		kind := fallbackProductKinds[i%len(fallbackProductKinds)]
		name := fmt.Sprintf("%s %s", titleCase(niche), kind)
		platformID := uuid.New().String()

		description := fmt.Sprintf("A quality %s pick for every %s enthusiast.", kind, niche)
		if generated, err := s.aiService.GenerateProductDescription(ctx, name, niche); err == nil {
			description = generated
		}

		price, _ := decimal.NewFromString(fallbackPrices[i%len(fallbackPrices)])
		products = append(products, models.ProductDraft{
			PlatformID:   platformID,
			Name:         name,
			Description:  description,
			Price:        price,
			CurrencyCode: "USD",
			Image: models.ProductImage{
				Alt: name,
				Src: sources.PlaceholderImage(name),
			},
			Rating: sources.SimulatedRating(platformID),
			Stock:  20 + i*5,
			Tags:   []string{niche, strings.ToLower(kind)},
		})
	}
	return products
}

func (s *GeneratorService) attachImages(ctx context.Context, draft *models.StoreDraft, niche string) {
	draft.HeroImage = sources.PlaceholderImage(draft.Name)

	images, err := s.aiService.SearchImages(ctx, niche, len(draft.Products)+1)
	if err != nil {
		logrus.WithError(err).Debug("Falling back to placeholder imagery")
		return
	}
	if len(images) == 0 {
		return
	}

	draft.HeroImage = images[0].URL
	for i := range draft.Products {
		if i+1 >= len(images) {
			break
		}
		draft.Products[i].Image.Src = images[i+1].URL
		if images[i+1].Alt != "" {
			draft.Products[i].Image.Alt = images[i+1].Alt
		}
	}
}

func (s *GeneratorService) attachLogo(ctx context.Context, draft *models.StoreDraft, niche string) {
	if s.storageService == nil {
		return
	}

	logo, err := s.aiService.GenerateLogo(ctx, draft.Name, niche)
	if err != nil {
		logrus.WithError(err).Debug("Skipping generated logo")
		return
	}

	logo = s.aiService.RemoveBackground(ctx, logo)
	url, err := s.storageService.UploadAsset(ctx, fmt.Sprintf("logos/%s.png", uuid.New()), logo, "image/png")
	if err != nil {
		logrus.WithError(err).Warn("Failed to upload generated logo")
		return
	}
	draft.LogoURL = url
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func nicheFromPrompt(prompt string) string {
	prompt = strings.ToLower(strings.TrimSpace(prompt))
	for _, prefix := range []string{"a store for ", "a store selling ", "an online store for ", "i want to sell "} {
		if strings.HasPrefix(prompt, prefix) {
			prompt = strings.TrimPrefix(prompt, prefix)
			break
		}
	}

	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "general"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// internal/handlers/ai.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// POST /ai/store-names
func (h *AIHandler) SuggestStoreNames(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		Niche string `json:"niche" validate:"required"`
		Count int    `json:"count" validate:"omitempty,min=1,max=10"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	names, err := h.aiService.SuggestStoreNames(c.Request.Context(), req.Niche, req.Count)
	if err != nil {
		h.aiError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"names": names,
	})
}

// POST /ai/hero-copy
func (h *AIHandler) GenerateHeroCopy(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		StoreName string `json:"store_name" validate:"required"`
		Niche     string `json:"niche" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	hero, err := h.aiService.GenerateHeroCopy(c.Request.Context(), req.StoreName, req.Niche)
	if err != nil {
		h.aiError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"hero": hero,
	})
}

// POST /ai/product-description
func (h *AIHandler) GenerateProductDescription(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		ProductName string `json:"product_name" validate:"required"`
		Niche       string `json:"niche" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	description, err := h.aiService.GenerateProductDescription(c.Request.Context(), req.ProductName, req.Niche)
	if err != nil {
		h.aiError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"description": description,
	})
}

// GET /ai/images
func (h *AIHandler) SearchImages(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		utils.BadRequestResponse(c, "query parameter is required", nil)
		return
	}

	images, err := h.aiService.SearchImages(c.Request.Context(), query, 12)
	if err != nil {
		h.aiError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"images": images,
	})
}

func (h *AIHandler) aiError(c *gin.Context, err error) {
	var malformed *services.MalformedOutputError
	switch {
	case errors.Is(err, services.ErrAINotConfigured):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI generation is not configured", nil)
	case errors.As(err, &malformed):
		utils.UnprocessableResponse(c, "The model returned unusable output, please try again", nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

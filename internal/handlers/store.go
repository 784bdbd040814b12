// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

type StoreHandler struct {
	storeService     *services.StoreService
	generatorService *services.GeneratorService
}

func NewStoreHandler(storeService *services.StoreService, generatorService *services.GeneratorService) *StoreHandler {
	return &StoreHandler{
		storeService:     storeService,
		generatorService: generatorService,
	}
}

// POST /stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var draft models.StoreDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), draft, userID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"store": store,
	})
}

// GET /stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	stores, total, err := h.storeService.ListStores(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(stores, total, params))
}

// GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	store, err := h.storeService.GetStore(c.Request.Context(), storeID, userID)
	if err != nil {
		storeErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /stores/:id/preview
// Runs behind OptionalAuth: previews are shareable, but an authenticated
// owner is told the store is theirs so the UI can show edit controls.
func (h *StoreHandler) PreviewStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	store, err := h.storeService.GetPublicStore(c.Request.Context(), storeID)
	if err != nil {
		storeErrorResponse(c, err)
		return
	}

	isOwner := false
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if userID, parseErr := uuid.Parse(userIDStr); parseErr == nil {
			isOwner = store.UserID == userID
		}
	}

	utils.SuccessResponse(c, gin.H{
		"store":    store,
		"is_owner": isOwner,
	})
}

// PUT /stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.UpdateStore(c.Request.Context(), storeID, userID, &req)
	if err != nil {
		storeErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// DELETE /stores/:id
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	if err := h.storeService.DeleteStore(c.Request.Context(), storeID, userID); err != nil {
		storeErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Store deleted successfully",
	})
}

// POST /stores/generate
// Returns a draft for review; nothing is persisted until the client submits
// the draft through CreateStore.
func (h *StoreHandler) GenerateFromPrompt(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req struct {
		Prompt string `json:"prompt" validate:"required,min=3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	draft, err := h.generatorService.GenerateFromPrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"draft": draft,
	})
}

// POST /stores/generate/guided
func (h *StoreHandler) GenerateFromWizard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var answers services.WizardAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&answers)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	draft, err := h.generatorService.GenerateFromWizard(c.Request.Context(), &answers)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"draft": draft,
	})
}

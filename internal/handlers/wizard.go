// internal/handlers/wizard.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
	"github.com/Artistsreach/storegen-sub000/internal/wizard"
)

// WizardHandler exposes the import wizard over HTTP. Each response carries
// the wizard's full state snapshot so the client never tracks step logic
// itself.
type WizardHandler struct {
	manager      *wizard.Manager
	storeService *services.StoreService
}

func NewWizardHandler(manager *wizard.Manager, storeService *services.StoreService) *WizardHandler {
	return &WizardHandler{
		manager:      manager,
		storeService: storeService,
	}
}

type startWizardRequest struct {
	Domain string `json:"domain" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

type loadMoreRequest struct {
	Kind string `json:"kind" validate:"required,oneof=products collections"`
}

// GET /wizard/sources
func (h *WizardHandler) ListSources(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"sources": h.manager.SourceNames(),
	})
}

// POST /wizard/:source/start
func (h *WizardHandler) Start(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req startWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	w, err := h.manager.Start(c.Request.Context(), userID, c.Param("source"), sources.Credentials{
		Domain: req.Domain,
		Token:  req.Token,
	})
	if err != nil {
		h.wizardError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

// POST /wizard/:source/next
func (h *WizardHandler) Next(c *gin.Context) {
	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	if err := w.Next(c.Request.Context()); err != nil {
		h.wizardError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

// POST /wizard/:source/back
func (h *WizardHandler) Back(c *gin.Context) {
	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	if err := w.Back(); err != nil {
		h.wizardError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

// POST /wizard/:source/load-more
func (h *WizardHandler) LoadMore(c *gin.Context) {
	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	var req loadMoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := w.LoadMore(c.Request.Context(), sources.ItemKind(req.Kind)); err != nil {
		h.wizardError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

// POST /wizard/:source/finalize
func (h *WizardHandler) Finalize(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	store, err := w.Finalize(c.Request.Context(), userID, h.storeService)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	if store == nil {
		// Import failed; the wizard keeps its data so the user can retry.
		utils.SuccessResponse(c, gin.H{
			"wizard": w.State(),
		})
		return
	}

	utils.CreatedResponse(c, gin.H{
		"store":  store,
		"wizard": w.State(),
	})
}

// POST /wizard/:source/cancel
func (h *WizardHandler) Cancel(c *gin.Context) {
	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	w.Cancel()
	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

// GET /wizard/:source
func (h *WizardHandler) State(c *gin.Context) {
	w, ok := h.wizardFor(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wizard": w.State(),
	})
}

func (h *WizardHandler) wizardFor(c *gin.Context) (*wizard.Wizard, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	w, err := h.manager.Wizard(userID, c.Param("source"))
	if err != nil {
		utils.NotFoundResponse(c, "source")
		return nil, false
	}
	return w, true
}

func (h *WizardHandler) wizardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrBusy):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, wizard.ErrInvalidTransition):
		utils.UnprocessableResponse(c, err.Error(), nil)
	default:
		// Import failures are recorded on the wizard state; plain errors here
		// mean an unknown source or a persistence fault.
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

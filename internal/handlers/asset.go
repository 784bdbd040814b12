// internal/handlers/asset.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

// AssetHandler serves owner uploads of store imagery (logos, hero images,
// product shots). Every route is scoped to a store the caller owns.
type AssetHandler struct {
	storeService   *services.StoreService
	storageService *services.StorageService
}

func NewAssetHandler(storeService *services.StoreService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		storeService:   storeService,
		storageService: storageService,
	}
}

// POST /stores/:id/assets
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	if _, err := h.storeService.GetStore(c.Request.Context(), storeID, userID); err != nil {
		storeErrorResponse(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "A file field is required", err.Error())
		return
	}
	defer file.Close()

	category := c.DefaultPostForm("category", "general")
	options := h.storageService.GetDefaultUploadOptions(category)

	result, err := h.storageService.UploadFile(c.Request.Context(), file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"asset": result,
	})
}

// DELETE /stores/:id/assets
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	if _, err := h.storeService.GetStore(c.Request.Context(), storeID, userID); err != nil {
		storeErrorResponse(c, err)
		return
	}

	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "A key query parameter is required", nil)
		return
	}

	if err := h.storageService.DeleteFile(c.Request.Context(), key); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": key,
	})
}

// internal/handlers/helpers.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Artistsreach/storegen-sub000/internal/services"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// storeErrorResponse maps store service errors onto HTTP statuses.
func storeErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStoreNotFound):
		utils.NotFoundResponse(c, "store")
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, "You do not own this store")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

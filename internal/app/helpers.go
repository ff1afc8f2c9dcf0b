package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// handleServiceError maps service sentinel errors to HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		util.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		util.Conflict(c, err.Error())
	default:
		util.InternalError(c, "Something went wrong")
	}
}

// bindingError turns gin binding failures into readable messages.
func bindingError(c *gin.Context, err error) {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) && len(validationErr) > 0 {
		fieldErr := validationErr[0]
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			util.BadRequest(c, fmt.Sprintf("%s is required", field))
		case "min":
			util.BadRequest(c, fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param()))
		case "max":
			util.BadRequest(c, fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param()))
		case "email":
			util.BadRequest(c, "invalid email format")
		case "oneof":
			util.BadRequest(c, fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param()))
		default:
			util.BadRequest(c, fmt.Sprintf("%s is invalid", field))
		}
		return
	}
	util.BadRequest(c, err.Error())
}

// pageParams reads 1-based pageNumber/pageSize query params. Invalid values
// fall back to the defaults; the service layer caps the size.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "25"))
	if err != nil || pageSize < 1 {
		pageSize = 25
	}

	return page, pageSize
}

// currentUserID returns the authenticated user ID, or "" when the request is
// anonymous (optional auth routes).
func currentUserID(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		return userID.(string)
	}
	return ""
}

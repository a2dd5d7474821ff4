// internal/handlers/helpers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/utils"
)

// respondError maps the service error taxonomy onto HTTP statuses. Storage
// errors are logged but never leak details to the client.
func respondError(c *gin.Context, resource string, err error) {
	switch {
	case apperrors.IsNotFound(err):
		utils.NotFoundResponse(c, resource)
	case apperrors.IsValidation(err):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skytrip/flight-booking-backend/internal/models"
)

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// respondError maps domain errors onto HTTP statuses: missing resources
// read as 404, semantic rejections as 400, lost seat races as 409 and
// everything else as 500.
func respondError(c *gin.Context, err error) {
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		})
		return
	}

	var validation *models.ValidationError
	if errors.As(err, &validation) {
		resp := ErrorResponse{
			Error:   "validation_error",
			Message: validation.Message,
		}
		if validation.Field != "" {
			resp.Details = gin.H{"field": validation.Field}
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var seatConflict *models.SeatConflictError
	if errors.As(err, &seatConflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "seat_conflict",
			Message: seatConflict.Error(),
			Details: gin.H{"seat_ids": seatConflict.SeatIDs},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An unexpected error occurred",
	})
}

// respondBindError reports a malformed or incomplete request body
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body: " + err.Error(),
	})
}

// parseIDParam parses the :id path segment, responding 400 when it is
// not a uuid. The bool reports success.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

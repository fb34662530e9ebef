package restapi

import (
	"errors"
	"net/http"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/infrastructure/network/client"

	"github.com/gin-gonic/gin"
)

// APIErrorResponse is the body of every non-2xx reply.
type APIErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps domain and node errors to an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrNotConnected):
		return http.StatusConflict, "not_connected"
	case errors.Is(err, entity.ErrInvalidRecipient):
		return http.StatusBadRequest, "invalid_recipient"
	case errors.Is(err, entity.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, entity.ErrSubmissionFailed):
		return http.StatusBadGateway, "submission_failed"
	case errors.Is(err, entity.ErrTransactionNotFound), client.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusBadRequest {
			return http.StatusBadRequest, "invalid_input"
		}
		return http.StatusBadGateway, "node_error"
	}
	return http.StatusInternalServerError, "internal"
}

func abortWithError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, APIErrorResponse{Error: err.Error(), Code: code})
}

package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 response, used when a background job was
// registered.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingUpload):
		return http.StatusBadRequest, "MISSING_UPLOAD", "no file uploaded"
	case errors.Is(err, domain.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "uploaded file exceeds the size limit"
	case errors.Is(err, domain.ErrEmptyRules):
		return http.StatusBadRequest, "EMPTY_RULES", "rule text produced no rules and no removal was requested"
	case errors.Is(err, domain.ErrEmptyMapping):
		return http.StatusBadRequest, "EMPTY_MAPPING", "column mapping is empty; expected HEADER;FIELD lines"
	case errors.Is(err, domain.ErrBadDelimiter):
		return http.StatusBadRequest, "BAD_DELIMITER", "delimiter must be a single character"
	case errors.Is(err, domain.ErrBadArchive):
		return http.StatusBadRequest, "BAD_ARCHIVE", "uploaded file is not a readable ZIP archive"
	case errors.Is(err, domain.ErrInvoiceBodyMissing):
		return http.StatusUnprocessableEntity, "INVOICE_BODY_MISSING", "infNFCom block not found in XML"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND", "job not found or expired"
	case errors.Is(err, domain.ErrJobNotDone):
		return http.StatusConflict, "JOB_NOT_DONE", "job has not finished yet"
	case errors.Is(err, domain.ErrJobFailed):
		return http.StatusConflict, "JOB_FAILED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

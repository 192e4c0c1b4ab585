package handler

import (
	"errors"
	"net/http"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/domain/shared"
	"github.com/finlens/backend/internal/interfaces/http/dto"
	"github.com/finlens/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getCompanyID extracts the company ID set by the company middleware
func getCompanyID(c *gin.Context) (uuid.UUID, error) {
	companyID, err := middleware.GetCompanyUUID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if companyID == uuid.Nil {
		return uuid.Nil, errors.New("company ID not found in context")
	}
	return companyID, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// syncErrorCodes maps sync domain sentinels to API error codes. Connector
// failures surface as gateway errors since the fault is upstream.
var syncErrorCodes = []struct {
	err  error
	code string
}{
	{erpsync.ErrSyncAlreadyRunning, dto.ErrCodeSyncInProgress},
	{erpsync.ErrIntegrationInactive, dto.ErrCodeInvalidState},
	{erpsync.ErrEntityMappingNotFound, dto.ErrCodeMappingRequired},
	{erpsync.ErrInvalidQueryArgument, dto.ErrCodeInvalidInput},
	{erpsync.ErrConnectorAuth, dto.ErrCodeUpstreamAuth},
	{erpsync.ErrConnectorTimeout, dto.ErrCodeUpstreamTimeout},
	{erpsync.ErrConnectorRequest, dto.ErrCodeUpstream},
	{erpsync.ErrCredentialsMissingAccountID, dto.ErrCodeInvalidInput},
	{erpsync.ErrCredentialsMissingConsumerKey, dto.ErrCodeInvalidInput},
	{erpsync.ErrCredentialsMissingConsumerSecret, dto.ErrCodeInvalidInput},
	{erpsync.ErrCredentialsMissingTokenID, dto.ErrCodeInvalidInput},
	{erpsync.ErrCredentialsMissingTokenSecret, dto.ErrCodeInvalidInput},
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	for _, mapping := range syncErrorCodes {
		if errors.Is(err, mapping.err) {
			statusCode := dto.GetHTTPStatus(mapping.code)
			c.JSON(statusCode, dto.NewErrorResponseWithRequestID(mapping.code, err.Error(), requestID))
			return
		}
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"quillpost/internal/apperr"
	"quillpost/internal/log"
	"quillpost/internal/middleware"
	"quillpost/internal/utils"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Input   any               `json:"input,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}

// Invalid answers 400 with the offending fields and echoes the submitted input
// so a client can redisplay its form.
func Invalid(c *gin.Context, verr *apperr.ValidationError, input any) {
	c.JSON(http.StatusBadRequest, Response{Error: &ErrorInfo{
		Code:    "VALIDATION_FAILED",
		Message: "invalid input",
		Fields:  verr.Fields,
		Input:   input,
	}})
}

// RespondError maps service errors onto HTTP responses. input is echoed back
// on validation failures and may be nil.
func RespondError(c *gin.Context, err error, input any) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		Invalid(c, verr, input)
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		RedirectToLogin(c)
	case errors.Is(err, apperr.ErrForbidden):
		Forbidden(c, "you are not allowed to do that")
	case errors.Is(err, apperr.ErrConstraintViolation):
		Error(c, http.StatusConflict, "CONFLICT", "the request conflicts with existing data")
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("request failed")
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

// pathID parses the :id route parameter, answering 404 when it is not a
// positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c, "no such page")
	}
	return id, ok
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quillpost/internal/apperr"

	"github.com/gin-gonic/gin"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/follow/", "/follow/"},
		{"/posts/3/?page=2", "/posts/3/?page=2"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("post 3: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"conflict", fmt.Errorf("%w: dup", apperr.ErrConstraintViolation), http.StatusConflict},
		{"validation", apperr.NewValidation("text", "required"), http.StatusBadRequest},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/follow/", nil)

			RespondError(c, tt.err, gin.H{"text": ""})
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestValidationResponseEchoesInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/create/", nil)

	RespondError(c, apperr.NewValidation("text", "required"), postForm{Text: " ", Group: "2"})

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Fields map[string]string `json:"fields"`
			Input  postForm          `json:"input"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error.Fields["text"] != "required" || resp.Error.Input.Group != "2" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

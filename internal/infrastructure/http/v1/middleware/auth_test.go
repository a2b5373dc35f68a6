package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tillbox/internal/core/apperror"
	appctx "tillbox/internal/core/context"
)

type fakeValidator struct {
	user      *appctx.UserContext
	err       error
	lastToken string
}

func (f *fakeValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type errorBody struct {
	Success bool                  `json:"success"`
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors"`
}

func protectedRouter(v JWTValidator, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/protected", Auth(v), handler)
	return r
}

func get(t *testing.T, r *gin.Engine, authHeader string) (int, errorBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body errorBody
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v\n%s", err, w.Body.String())
		}
	}
	return w.Code, body
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func TestAuth_MissingHeader(t *testing.T) {
	r := protectedRouter(&fakeValidator{}, okHandler)

	status, body := get(t, r, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body.Code != apperror.CodeUnauthorized || body.Message != "missing authorization header" {
		t.Errorf("unexpected envelope: code=%q message=%q", body.Code, body.Message)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := protectedRouter(&fakeValidator{}, okHandler)

	for _, header := range []string{"Bearer", "Basic dXNlcg==", "token abc"} {
		status, body := get(t, r, header)
		if status != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, status)
		}
		if body.Message != "invalid authorization header format" {
			t.Errorf("header %q: unexpected message %q", header, body.Message)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	r := protectedRouter(&fakeValidator{err: errors.New("expired")}, okHandler)

	status, body := get(t, r, "Bearer stale-token")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body.Message != "invalid token" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestAuth_PopulatesContext(t *testing.T) {
	validator := &fakeValidator{user: &appctx.UserContext{UserID: 7, Email: "jo@example.com", Role: "cashier"}}

	var seen *appctx.UserContext
	r := protectedRouter(validator, func(c *gin.Context) {
		seen = appctx.GetUser(c.Request.Context())
		okHandler(c)
	})

	// The scheme compares case-insensitively.
	status, _ := get(t, r, "bearer good-token")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if validator.lastToken != "good-token" {
		t.Errorf("expected the bare token, got %q", validator.lastToken)
	}
	if seen == nil || seen.UserID != 7 || seen.Role != "cashier" {
		t.Errorf("user not populated in request context: %+v", seen)
	}
}

func TestRequireRole_AcceptsAnyListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: 1, Role: "manager"})
		c.Request = c.Request.WithContext(ctx)
	})
	r.GET("/x", RequireRole("admin", "manager"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for a listed role, got %d", w.Code)
	}
}

func TestErrorHandler_FieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidationFields(
			apperror.FieldError{Field: "limit", Message: "must be at least 1"},
		))
		c.Abort()
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if _, ok := raw["errors"]; !ok {
		t.Error("expected field errors in the envelope")
	}
	// Field errors already travel in the errors key.
	if _, ok := raw["details"]; ok {
		t.Error("details must not duplicate the field errors")
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("pool exhausted"))
		c.Abort()
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body.Code != apperror.CodeInternal {
		t.Errorf("expected %s, got %q", apperror.CodeInternal, body.Code)
	}
	// The cause is logged, never sent to the client.
	if body.Message != "Internal server error" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestErrorHandler_KeepsWrittenBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"custom": true})
		_ = c.Error(errors.New("late failure"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected the handler's status kept, got %d", w.Code)
	}
	if !json.Valid(w.Body.Bytes()) || w.Body.String() != `{"custom":true}` {
		t.Errorf("expected the handler's body kept, got %s", w.Body.String())
	}
}

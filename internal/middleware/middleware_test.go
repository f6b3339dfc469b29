package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
)

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    dto.ErrorCode `json:"code"`
		Details interface{}   `json:"details"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (int, errorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body errorBody
	if jerr := json.Unmarshal(w.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("decode body: %v", jerr)
	}
	return w.Code, body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrDuplicateRegistration, http.StatusConflict, dto.ErrorCodeDuplicateRegistration},
		{fmt.Errorf("wrapped: %w", apperrors.ErrDriveNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewCustomError(apperrors.ErrNotEligible, "no"), http.StatusUnprocessableEntity, dto.ErrorCodeNotEligible},
		{apperrors.NewCustomError(apperrors.ErrDriveClosed, "closed"), http.StatusUnprocessableEntity, dto.ErrorCodeDriveClosed},
		{apperrors.NewCustomError(apperrors.ErrDeadlineLocked, "locked"), http.StatusConflict, dto.ErrorCodeDeadlineLocked},
		{apperrors.NewCustomError(apperrors.ErrNoMatchingStudents, "none"), http.StatusNotFound, dto.ErrorCodeNoMatchingStudents},
		{apperrors.NewCustomError(apperrors.ErrSheetGeneration, "boom"), http.StatusInternalServerError, dto.ErrorCodeSheetGeneration},
		{apperrors.NewValidationError("bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.NewRemoteUnavailableError("query", errors.New("dial tcp")), http.StatusServiceUnavailable, dto.ErrorCodeRemoteUnavailable},
		{errors.New("surprise"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		status, body := serveError(t, tc.err)
		if status != tc.status || body.Error.Code != tc.code {
			t.Errorf("%v: got %d %s, want %d %s", tc.err, status, body.Error.Code, tc.status, tc.code)
		}
		if body.Success {
			t.Errorf("%v: success flag set", tc.err)
		}
	}
}

func TestHandleAPIErrorDetails(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrNotEligible, "no").
		WithDetails(map[string]interface{}{"reasons": []string{"CGPA below minimum"}})
	_, body := serveError(t, err)

	details, ok := body.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %#v", body.Error.Details)
	}
	reasons, _ := details["reasons"].([]interface{})
	if len(reasons) != 1 || reasons[0] != "CGPA below minimum" {
		t.Fatalf("reasons = %v", details["reasons"])
	}
}

func newAuthRouter(jwtService *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	r.GET("/", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.String(http.StatusOK, caller.ID)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	r := newAuthRouter(jwtService, models.RoleAdmin)

	admin, _ := jwtService.GenerateToken("admin-1", models.RoleAdmin, time.Hour)
	student, _ := jwtService.GenerateToken("student-1", models.RoleStudent, time.Hour)
	expired, _ := jwtService.GenerateToken("admin-1", models.RoleAdmin, -time.Hour)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"admin", "Bearer " + admin, http.StatusOK},
		{"student forbidden", "Bearer " + student, http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && w.Body.String() != "admin-1" {
			t.Errorf("%s: body = %q", tc.name, w.Body.String())
		}
	}
}

func TestJWTAuthExpiredCode(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret"})
	r := newAuthRouter(jwtService, models.RoleStudent)
	expired, _ := jwtService.GenerateToken("student-1", models.RoleStudent, -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/?token="+expired, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != dto.ErrorCodeExpiredToken {
		t.Fatalf("code = %s, want %s", body.Error.Code, dto.ErrorCodeExpiredToken)
	}
}

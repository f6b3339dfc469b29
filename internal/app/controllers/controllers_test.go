package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/controllers"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/app/routes"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/kvstore"
	"github.com/yigit/placement/internal/pkg/validation"
)

var registerOnce sync.Once

func registerValidators(t *testing.T) {
	t.Helper()
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			t.Fatalf("unexpected validator engine %T", binding.Validator.Engine())
		}
		if err := validation.RegisterRules(v); err != nil {
			t.Fatalf("register rules: %v", err)
		}
	})
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

type testEnv struct {
	router *gin.Engine
	jwt    *auth.JWTService
	drives *repositories.LocalDriveStore
	regs   *repositories.LocalRegistrationStore
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerValidators(t)

	now := time.Date(2024, time.August, 20, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	lgr := zerolog.Nop()

	kv := kvstore.NewMemoryStore()
	drives := repositories.NewLocalDriveStore(kv)
	regs := repositories.NewLocalRegistrationStore(kv)
	driveLocks := services.NewDriveLocks()

	files, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "placement.test"})
	cohort := models.Cohort{
		TotalStudents: 4000,
		Branches:      map[models.Branch]int{"CSE": 1000, "ECE": 800},
		Years:         map[models.Year]int{4: 1000},
	}

	ctrl := routes.Controllers{
		Health:       controllers.NewHealthController(map[string]controllers.Pinger{"postgres": failingPinger{}, "redis": nil}),
		Drive:        controllers.NewDriveController(services.NewDriveService(drives, regs, driveLocks, clock, lgr)),
		Registration: controllers.NewRegistrationController(services.NewRegistrationService(drives, regs, files, driveLocks, time.July, clock, lgr)),
		Analytics: controllers.NewAnalyticsController(services.NewAnalyticsService(drives, regs, services.AnalyticsSettings{
			Cohort:     cohort,
			StartMonth: time.July,
		}, clock, lgr)),
		Sheet: controllers.NewSheetController(services.NewSheetService(drives, regs, clock, lgr)),
	}

	router := gin.New()
	routes.SetupRouter(router, ctrl, middleware.NewAuthMiddleware(jwtService), routes.ApplyLimit{
		Limiter: middleware.NewMemoryLimiter(),
		Limit:   100,
		Window:  time.Minute,
	})

	return &testEnv{router: router, jwt: jwtService, drives: drives, regs: regs, now: now}
}

func (e *testEnv) token(t *testing.T, subject string, role models.RoleType) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(subject, role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return e.do(t, method, path, token, body, "application/json")
}

func (e *testEnv) seedDrive(t *testing.T, id string, minCGPA float64) {
	t.Helper()
	drive := &models.PlacementDrive{
		ID:          id,
		CompanyName: "Acme",
		Position:    "SDE",
		Type:        models.DriveTypePlacement,
		Category:    models.DriveCategoryRegular,
		Deadline:    e.now.Add(72 * time.Hour),
		EligibilityCriteria: models.EligibilityCriteria{
			MinCGPA: &minCGPA,
		},
	}
	if err := e.drives.Create(context.Background(), drive); err != nil {
		t.Fatalf("seed drive: %v", err)
	}
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Warnings []string        `json:"warnings"`
	Error    *struct {
		Code    string      `json:"code"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func applyBody(cgpa float64) map[string]interface{} {
	return map[string]interface{}{
		"name":       "Asha Rao",
		"rollNumber": "21CSE1042",
		"branch":     "cse",
		"year":       4,
		"cgpa":       cgpa,
		"email":      "asha@college.edu",
		"phone":      "+919876543210",
	}
}

type registrationBody struct {
	ID              string `json:"id"`
	StudentID       string `json:"studentId"`
	Branch          string `json:"branch"`
	HasOffer        bool   `json:"hasOffer"`
	EffectiveStatus string `json:"effectiveStatus"`
	OfferDocuments  *struct {
		OfferLetter string `json:"offerLetter"`
	} `json:"offerDocuments"`
	MultipleOffers *int `json:"multipleOffers"`
}

func (e *testEnv) apply(t *testing.T, student, drive string) registrationBody {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/v1/drives/"+drive+"/registrations", e.token(t, student, models.RoleStudent), applyBody(8.4))
	if w.Code != http.StatusCreated {
		t.Fatalf("apply status = %d body = %s", w.Code, w.Body.String())
	}
	var reg registrationBody
	decode(t, w, &reg)
	return reg
}

func TestApplyFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 7.5)

	reg := env.apply(t, "s1", "d1")
	if reg.StudentID != "s1" || reg.Branch != "CSE" || reg.EffectiveStatus != "submitted" {
		t.Fatalf("registration = %+v", reg)
	}

	token := env.token(t, "s1", models.RoleStudent)
	w := env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", token, applyBody(8.4))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	if e := decode(t, w, nil); e.Error == nil || e.Error.Code != "REG_001" {
		t.Fatalf("duplicate body = %s", w.Body.String())
	}

	w = env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", env.token(t, "s2", models.RoleStudent), applyBody(7.2))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("ineligible status = %d", w.Code)
	}

	w = env.doJSON(t, http.MethodPost, "/api/v1/drives/missing/registrations", env.token(t, "s3", models.RoleStudent), applyBody(8.4))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing drive status = %d", w.Code)
	}
}

func TestApplyValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	token := env.token(t, "s1", models.RoleStudent)

	body := applyBody(8)
	body["phone"] = "call me"
	if w := env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", token, body); w.Code != http.StatusBadRequest {
		t.Fatalf("bad phone status = %d", w.Code)
	}

	body = applyBody(8)
	delete(body, "email")
	if w := env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", token, body); w.Code != http.StatusBadRequest {
		t.Fatalf("missing email status = %d", w.Code)
	}
}

func TestApplyRequiresStudentRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)

	w := env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", env.token(t, "a1", models.RoleAdmin), applyBody(8))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	w = env.doJSON(t, http.MethodPost, "/api/v1/drives/d1/registrations", "", applyBody(8))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetRegistrationOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	reg := env.apply(t, "s1", "d1")
	path := "/api/v1/registrations/" + reg.ID

	if w := env.do(t, http.MethodGet, path, env.token(t, "s1", models.RoleStudent), nil, ""); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, env.token(t, "s2", models.RoleStudent), nil, ""); w.Code != http.StatusForbidden {
		t.Fatalf("other student status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, env.token(t, "a1", models.RoleAdmin), nil, ""); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestListMyRegistrationsPagination(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"d1", "d2", "d3"} {
		env.seedDrive(t, id, 0)
		env.apply(t, "s1", id)
	}
	env.apply(t, "s2", "d1")

	w := env.do(t, http.MethodGet, "/api/v1/me/registrations?page=2&size=2", env.token(t, "s1", models.RoleStudent), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page struct {
		Registrations  []registrationBody `json:"registrations"`
		PaginationInfo struct {
			CurrentPage int `json:"currentPage"`
			TotalItems  int `json:"totalItems"`
			TotalPages  int `json:"totalPages"`
		} `json:"paginationInfo"`
	}
	decode(t, w, &page)
	if len(page.Registrations) != 1 || page.PaginationInfo.TotalItems != 3 || page.PaginationInfo.TotalPages != 2 {
		t.Fatalf("page = %+v", page)
	}
}

func TestListRegistrationsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	env.apply(t, "s1", "d1")

	if w := env.do(t, http.MethodGet, "/api/v1/registrations?driveId=d1", env.token(t, "s1", models.RoleStudent), nil, ""); w.Code != http.StatusForbidden {
		t.Fatalf("student status = %d", w.Code)
	}
	w := env.do(t, http.MethodGet, "/api/v1/registrations?driveId=d1", env.token(t, "a1", models.RoleAdmin), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestAttachOfferJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	reg := env.apply(t, "s1", "d1")
	admin := env.token(t, "a1", models.RoleAdmin)
	path := "/api/v1/registrations/" + reg.ID + "/offer"

	w := env.do(t, http.MethodPost, path, admin, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty body status = %d body = %s", w.Code, w.Body.String())
	}
	var got registrationBody
	decode(t, w, &got)
	if !got.HasOffer {
		t.Fatal("hasOffer not set")
	}

	w = env.doJSON(t, http.MethodPost, path, admin, map[string]interface{}{
		"offerLetter":    "https://files.example.com/offer.pdf",
		"multipleOffers": 2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("json status = %d body = %s", w.Code, w.Body.String())
	}
	decode(t, w, &got)
	if got.OfferDocuments == nil || got.OfferDocuments.OfferLetter != "https://files.example.com/offer.pdf" || got.MultipleOffers == nil || *got.MultipleOffers != 2 {
		t.Fatalf("registration = %+v", got)
	}

	w = env.doJSON(t, http.MethodPost, path, admin, map[string]interface{}{"offerLetter": "not a url"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad url status = %d", w.Code)
	}
}

func TestAttachOfferMultipart(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	reg := env.apply(t, "s1", "d1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("offerLetterFile", "offer.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 offer")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.WriteField("multipleOffers", "2"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	w := env.do(t, http.MethodPost, "/api/v1/registrations/"+reg.ID+"/offer", env.token(t, "a1", models.RoleAdmin), &buf, mw.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got registrationBody
	decode(t, w, &got)
	if got.OfferDocuments == nil || !strings.HasPrefix(got.OfferDocuments.OfferLetter, "http://localhost:8080/uploads/offers/"+reg.ID+"/") {
		t.Fatalf("registration = %+v", got)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedDrive(t, "d1", 0)
	reg := env.apply(t, "s1", "d1")
	env.apply(t, "s2", "d1")
	admin := env.token(t, "a1", models.RoleAdmin)
	if w := env.do(t, http.MethodPost, "/api/v1/registrations/"+reg.ID+"/offer", admin, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("offer status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/analytics/stats", admin, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats models.AnalyticsSnapshot
	decode(t, w, &stats)
	if stats.TotalStudents != 4000 || stats.PlacedStudents != 1 || len(stats.DriveWiseStats) != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if w := env.do(t, http.MethodGet, "/api/v1/analytics/stats?academicYear=2024", admin, nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad academic year status = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/analytics/trend", admin, nil, "")
	var trend []models.TrendPoint
	decode(t, w, &trend)
	if len(trend) != 7 || trend[1].Registrations != 2 || trend[1].Offers != 1 {
		t.Fatalf("trend = %+v", trend)
	}

	w = env.do(t, http.MethodGet, "/api/v1/analytics/offers", admin, nil, "")
	var offers models.OfferSummary
	decode(t, w, &offers)
	if offers.SingleOffer != 1 || offers.TotalOffers != 1 {
		t.Fatalf("offers = %+v", offers)
	}

	if w := env.do(t, http.MethodGet, "/api/v1/analytics/stats", env.token(t, "s1", models.RoleStudent), nil, ""); w.Code != http.StatusForbidden {
		t.Fatalf("student stats status = %d", w.Code)
	}
}

func TestSheetEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "a1", models.RoleAdmin)

	if w := env.do(t, http.MethodGet, "/api/v1/sheets?academicYear=2024-25", admin, nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("empty sheet status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/sheets?academicYear=24-25", admin, nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad year status = %d", w.Code)
	}

	env.seedDrive(t, "d1", 0)
	env.apply(t, "s1", "d1")
	env.apply(t, "s2", "d1")

	w := env.do(t, http.MethodGet, "/api/v1/sheets?academicYear=2024-25&minCGPA=abc", admin, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("sheet status = %d body = %s", w.Code, w.Body.String())
	}
	var sheet models.Sheet
	resp := decode(t, w, &sheet)
	if len(sheet.Students) != 2 || len(resp.Warnings) != 1 {
		t.Fatalf("sheet rows = %d warnings = %v", len(sheet.Students), resp.Warnings)
	}

	w = env.do(t, http.MethodGet, "/api/v1/sheets/export?academicYear=2024-25&format=csv", admin, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="all-2024-25.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if w.Header().Get("X-Row-Count") != "2" {
		t.Errorf("X-Row-Count = %q", w.Header().Get("X-Row-Count"))
	}

	if w := env.do(t, http.MethodGet, "/api/v1/sheets/export?academicYear=2024-25&format=pdf", admin, nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d", w.Code)
	}
}

func TestDriveEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "a1", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/api/v1/drives", admin, map[string]interface{}{
		"companyName": "Acme Corp",
		"position":    "Software Engineer",
		"type":        "placement",
		"deadline":    env.now.Add(48 * time.Hour).Format(time.RFC3339),
		"eligibilityCriteria": map[string]interface{}{
			"minCGPA":  7.5,
			"branches": []string{"CSE"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &created)
	if created.ID == "" || created.Status != "active" {
		t.Fatalf("created = %+v", created)
	}

	student := env.token(t, "s1", models.RoleStudent)
	w = env.do(t, http.MethodGet, "/api/v1/drives/eligible?branch=ece&year=4&cgpa=9", student, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("eligible status = %d", w.Code)
	}
	var eligible []struct {
		ID          string                   `json:"id"`
		Eligibility models.EligibilityResult `json:"eligibility"`
	}
	decode(t, w, &eligible)
	if len(eligible) != 1 || eligible[0].Eligibility.Eligible || eligible[0].Eligibility.Reasons[0] != "Branch not eligible" {
		t.Fatalf("eligible = %+v", eligible)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/drives/"+created.ID+"/close", admin, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("close status = %d", w.Code)
	}
	if w := env.doJSON(t, http.MethodPost, "/api/v1/drives/"+created.ID+"/registrations", student, applyBody(9)); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("apply to closed status = %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/api/v1/drives/"+created.ID, admin, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestHealthReportsDegraded(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/health", "", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var health controllers.HealthResponse
	decode(t, w, &health)
	if health.Status != "degraded" || health.Components["postgres"] != "unavailable" || health.Components["redis"] != "disabled" {
		t.Fatalf("health = %+v", health)
	}
}

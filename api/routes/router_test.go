package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopstack-labs/shopstack-backend/internal/auth"
	"github.com/shopstack-labs/shopstack-backend/internal/categories"
	"github.com/shopstack-labs/shopstack-backend/internal/products"
	"github.com/shopstack-labs/shopstack-backend/internal/sales"
	"github.com/shopstack-labs/shopstack-backend/internal/stats"
	"github.com/shopstack-labs/shopstack-backend/internal/units"
	"github.com/shopstack-labs/shopstack-backend/internal/users"
	pkgAuth "github.com/shopstack-labs/shopstack-backend/pkg/auth"
	"github.com/shopstack-labs/shopstack-backend/pkg/auth/session"
	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	"github.com/shopstack-labs/shopstack-backend/pkg/enums"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
	"github.com/shopstack-labs/shopstack-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Email: req.Email}, nil
}

func (stubAuthService) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) error {
	return nil
}

func (stubAuthService) ResendCode(ctx context.Context, req auth.ResendCodeRequest) error {
	return nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	return nil
}

func (stubAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubCategoriesService struct{}

func (stubCategoriesService) Create(ctx context.Context, ownerID uuid.UUID, input categories.CreateCategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubCategoriesService) Get(ctx context.Context, ownerID, categoryID uuid.UUID) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: categoryID}, nil
}

func (stubCategoriesService) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*categories.ListResult, error) {
	return &categories.ListResult{}, nil
}

func (stubCategoriesService) Update(ctx context.Context, ownerID, categoryID uuid.UUID, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: categoryID}, nil
}

func (stubCategoriesService) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	return nil
}

type stubUnitsService struct{}

func (stubUnitsService) Create(ctx context.Context, ownerID uuid.UUID, input units.CreateUnitInput) (*units.UnitDTO, error) {
	return &units.UnitDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubUnitsService) Get(ctx context.Context, ownerID, unitID uuid.UUID) (*units.UnitDTO, error) {
	return &units.UnitDTO{ID: unitID}, nil
}

func (stubUnitsService) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*units.ListResult, error) {
	return &units.ListResult{}, nil
}

func (stubUnitsService) Update(ctx context.Context, ownerID, unitID uuid.UUID, input units.UpdateUnitInput) (*units.UnitDTO, error) {
	return &units.UnitDTO{ID: unitID}, nil
}

func (stubUnitsService) Delete(ctx context.Context, ownerID, unitID uuid.UUID) (*units.DeleteResult, error) {
	return &units.DeleteResult{}, nil
}

type stubProductsService struct{}

func (stubProductsService) Create(ctx context.Context, ownerID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubProductsService) Get(ctx context.Context, ownerID, productID uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (stubProductsService) List(ctx context.Context, ownerID uuid.UUID, search string, params pagination.Params) (*products.ListResult, error) {
	return &products.ListResult{}, nil
}

func (stubProductsService) Update(ctx context.Context, ownerID, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (stubProductsService) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	return nil
}

type stubSalesService struct{}

func (stubSalesService) Create(ctx context.Context, ownerID uuid.UUID, input sales.CreateSaleInput) (*sales.SaleDTO, error) {
	return &sales.SaleDTO{ID: uuid.New()}, nil
}

func (stubSalesService) Get(ctx context.Context, ownerID, saleID uuid.UUID) (*sales.SaleDTO, error) {
	return &sales.SaleDTO{ID: saleID}, nil
}

func (stubSalesService) List(ctx context.Context, ownerID uuid.UUID, filters sales.ListFilters, params pagination.Params) (*sales.ListResult, error) {
	return &sales.ListResult{}, nil
}

func (stubSalesService) Update(ctx context.Context, ownerID, saleID uuid.UUID, input sales.UpdateSaleInput) (*sales.SaleDTO, error) {
	return &sales.SaleDTO{ID: saleID}, nil
}

func (stubSalesService) Delete(ctx context.Context, ownerID, saleID uuid.UUID) error {
	return nil
}

type stubStatsService struct{}

func (stubStatsService) LifetimeSummary(ctx context.Context, ownerID uuid.UUID) (*stats.LifetimeSummaryDTO, error) {
	return &stats.LifetimeSummaryDTO{}, nil
}

func (stubStatsService) MonthSummary(ctx context.Context, ownerID uuid.UUID, periodsAgo int) (*stats.MonthSummaryDTO, error) {
	return &stats.MonthSummaryDTO{}, nil
}

func (stubStatsService) CategoricalRatios(ctx context.Context, ownerID uuid.UUID) (*stats.CategoricalRatiosDTO, error) {
	return &stats.CategoricalRatiosDTO{}, nil
}

func (stubStatsService) RevenueSeries(ctx context.Context, ownerID uuid.UUID, dateRange enums.DateRange) (*stats.RevenueSeriesDTO, error) {
	if !dateRange.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid date range")
	}
	return &stats.RevenueSeriesDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:            cfg,
		Logger:            logg,
		DB:                stubPinger{},
		SessionChecker:    stubSessionChecker{},
		AuthService:       stubAuthService{},
		UsersService:      stubUsersService{},
		CategoriesService: stubCategoriesService{},
		UnitsService:      stubUnitsService{},
		ProductsService:   stubProductsService{},
		SalesService:      stubSalesService{},
		StatsService:      stubStatsService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	paths := []string{
		"/api/v1/users/me",
		"/api/v1/categories/",
		"/api/v1/units/",
		"/api/v1/products/",
		"/api/v1/sales/",
		"/api/v1/stats/all",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesAcceptValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestStatsAllRejectsNonNumericLastMonth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/all?lastMonth=abc", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Success || payload.Message == "" {
		t.Fatalf("expected descriptive validation error, got %+v", payload)
	}
}

func TestStatsLineChartRejectsInvalidRange(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/line-chart?range=bogus", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStatsLineChartDefaultsRange(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/line-chart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for default range got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fx_rates_app/internal/apperrors"
	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	portssvc "github.com/SscSPs/fx_rates_app/internal/core/ports/services"
	"github.com/SscSPs/fx_rates_app/internal/dto"
	"github.com/SscSPs/fx_rates_app/internal/handlers"
	"github.com/SscSPs/fx_rates_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const testJWTSecret = "test-secret-key-for-handlers"

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) LatestRates(ctx context.Context, req dto.LatestRatesRequest) (*dto.LatestRatesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LatestRatesResponse), args.Error(1)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConvertResponse), args.Error(1)
}

func (m *MockExchangeRateService) ListRates(ctx context.Context, req dto.ListRatesRequest) (*dto.ListRatesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRatesResponse), args.Error(1)
}

// --- Test Suite ---
type ExchangeRateHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockExchangeRateService
}

func (suite *ExchangeRateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockExchangeRateService)

	cfg := &config.Config{
		JWTSecret:    testJWTSecret,
		IsProduction: true, // skips swagger routes
	}
	limiterInstance := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 1000})

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{ExchangeRate: suite.mockService}, limiterInstance)
}

func (suite *ExchangeRateHandlerTestSuite) tokenWithRoles(roles ...string) string {
	claims := jwt.MapClaims{
		"sub":   "test-client",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *ExchangeRateHandlerTestSuite) doRequest(target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_RequiresToken() {
	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=EUR", "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_RequiresLatestRole() {
	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=EUR", suite.tokenWithRoles("convert"))
	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "LatestRates")
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_ReturnsRateTable() {
	resp := &dto.LatestRatesResponse{
		Base: "EUR",
		Date: domain.NewDate(2025, time.February, 14),
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.0478"),
		},
	}
	suite.mockService.On("LatestRates", mock.Anything, dto.LatestRatesRequest{CurrencyCode: "EUR"}).
		Return(resp, nil).Once()

	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=EUR", suite.tokenWithRoles("latest"))

	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Base  string            `json:"base"`
		Date  string            `json:"date"`
		Rates map[string]string `json:"rates"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("EUR", body.Base)
	suite.Equal("2025-02-14", body.Date)
	suite.Equal("1.0478", body.Rates["USD"])
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_RestrictedCurrencyRejectedByBinding() {
	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=TRY", suite.tokenWithRoles("latest"))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "LatestRates")
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_NotFoundMapsTo404() {
	suite.mockService.On("LatestRates", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: no rate table", apperrors.ErrNotFound)).Once()

	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=XDR", suite.tokenWithRoles("latest"))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestLatest_CircuitOpenMapsTo503() {
	suite.mockService.On("LatestRates", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: breaker", apperrors.ErrCircuitOpen)).Once()

	w := suite.doRequest("/api/v1/exchange-rates/latest?currency_code=EUR", suite.tokenWithRoles("latest"))
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestConvert_ReturnsResult() {
	resp := &dto.ConvertResponse{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Date:             domain.NewDate(2025, time.February, 14),
		Amount:           decimal.RequireFromString("1"),
		Result:           decimal.RequireFromString("1.0478"),
	}
	suite.mockService.On("Convert", mock.Anything, dto.ConvertRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Date:             "2025-02-14",
		Amount:           "1",
	}).Return(resp, nil).Once()

	w := suite.doRequest("/api/v1/exchange-rates/convert?from_currency_code=EUR&to_currency_code=USD&date=2025-02-14&amount=1", suite.tokenWithRoles("convert"))

	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Result string `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("1.0478", body.Result)
}

func (suite *ExchangeRateHandlerTestSuite) TestConvert_MissingFieldsRejected() {
	w := suite.doRequest("/api/v1/exchange-rates/convert?from_currency_code=EUR", suite.tokenWithRoles("convert"))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestList_ReturnsPage() {
	day := domain.NewDate(2025, time.February, 14)
	resp := &dto.ListRatesResponse{
		StartDate:  day,
		EndDate:    day,
		Base:       "USD",
		PageNumber: 1,
		PageSize:   10,
		Rates: []dto.HistoricRate{
			{Date: day, CurrencyCode: "EUR", Rate: decimal.RequireFromString("0.9543")},
		},
	}
	suite.mockService.On("ListRates", mock.Anything, dto.ListRatesRequest{
		CurrencyCode: "USD",
		From:         "2025-02-14",
		To:           "2025-02-14",
	}).Return(resp, nil).Once()

	w := suite.doRequest("/api/v1/exchange-rates/list?currency_code=USD&from=2025-02-14&to=2025-02-14", suite.tokenWithRoles("list"))

	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		Base       string `json:"base"`
		PageNumber int    `json:"pageNumber"`
		PageSize   int    `json:"pageSize"`
		Rates      []struct {
			Date         string `json:"date"`
			CurrencyCode string `json:"currencyCode"`
			Rate         string `json:"rate"`
		} `json:"rates"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("2025-02-14", body.StartDate)
	suite.Equal("USD", body.Base)
	suite.Require().Len(body.Rates, 1)
	suite.Equal("EUR", body.Rates[0].CurrencyCode)
	suite.Equal("0.9543", body.Rates[0].Rate)
}

func (suite *ExchangeRateHandlerTestSuite) TestHealth_IsPublic() {
	w := suite.doRequest("/health", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestExchangeRateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateHandlerTestSuite))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_rates_app/internal/apperrors"
	portssvc "github.com/SscSPs/fx_rates_app/internal/core/ports/services"
	"github.com/SscSPs/fx_rates_app/internal/dto"
	"github.com/SscSPs/fx_rates_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Role names required per operation, carried in the JWT "roles" claim.
const (
	RoleLatest  = "latest"
	RoleConvert = "convert"
	RoleList    = "list"
)

// exchangeRateHandler handles HTTP requests for FX rate queries.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers the three rate query routes, each
// gated by its own role.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/latest", middleware.RequireRole(RoleLatest), h.latestRates)
		rates.GET("/convert", middleware.RequireRole(RoleConvert), h.convert)
		rates.GET("/list", middleware.RequireRole(RoleList), h.listRates)
	}
}

// latestRates godoc
// @Summary Latest exchange rates
// @Description Returns the most recently published rate table for a base currency
// @Tags exchange-rates
// @Produce json
// @Param currency_code query string true "Base currency code (e.g. EUR)"
// @Success 200 {object} dto.LatestRatesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No rate table for this base"
// @Failure 503 {object} map[string]string "Upstream unavailable"
// @Security BearerAuth
// @Router /exchange-rates/latest [get]
func (h *exchangeRateHandler) latestRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LatestRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for LatestRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.rateService.LatestRates(c.Request.Context(), req)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount between two currencies as of a given date
// @Tags exchange-rates
// @Produce json
// @Param from_currency_code query string true "Source currency code"
// @Param to_currency_code query string true "Target currency code"
// @Param date query string true "Conversion date (YYYY-MM-DD)"
// @Param amount query string true "Amount to convert"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No rate for this pair and date"
// @Failure 503 {object} map[string]string "Upstream unavailable"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.rateService.Convert(c.Request.Context(), req)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listRates godoc
// @Summary List historic exchange rates
// @Description Returns a paginated, sorted rate history over a date range
// @Tags exchange-rates
// @Produce json
// @Param currency_code query string true "Base currency code"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param page_number query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10)"
// @Success 200 {object} dto.ListRatesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No rates in this range"
// @Failure 503 {object} map[string]string "Upstream unavailable"
// @Security BearerAuth
// @Router /exchange-rates/list [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ListRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for ListRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.rateService.ListRates(c.Request.Context(), req)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondRateError maps the service error taxonomy onto HTTP statuses. Every
// non-success outcome lands in exactly one branch.
func respondRateError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Info("No data for query", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCircuitOpen):
		logger.Error("Upstream circuit open", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate source is temporarily unavailable, please retry later"})
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Error("Upstream unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate source did not respond, please retry"})
	case errors.Is(err, apperrors.ErrUpstream):
		logger.Error("Upstream failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Rate source returned an unexpected response"})
	default:
		logger.Error("Unhandled error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

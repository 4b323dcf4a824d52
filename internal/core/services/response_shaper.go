package services

import (
	"sort"

	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/SscSPs/fx_rates_app/internal/dto"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// shapeHistoryPage flattens a rate history into (date, currency, rate) rows,
// sorts them by date descending then currency code descending (ordinal), and
// applies skip/take pagination. An out-of-range page yields an empty page,
// never an error. The response echoes the requested range and the resolved
// pagination.
func shapeHistoryPage(history *domain.RateHistory, from, to domain.Date, base string, pageNumber, pageSize int) *dto.ListRatesResponse {
	if pageNumber < 1 {
		pageNumber = defaultPageNumber
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	rows := flattenHistory(history)

	skip := (pageNumber - 1) * pageSize
	page := make([]dto.HistoricRate, 0, pageSize)
	if skip < len(rows) {
		end := skip + pageSize
		if end > len(rows) {
			end = len(rows)
		}
		page = append(page, rows[skip:end]...)
	}

	return &dto.ListRatesResponse{
		StartDate:  from,
		EndDate:    to,
		Base:       base,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Rates:      page,
	}
}

// flattenHistory turns the date-keyed tables into a totally ordered flat
// sequence. Within one date a currency code appears at most once, so the
// (date desc, code desc) order has no ties.
func flattenHistory(history *domain.RateHistory) []dto.HistoricRate {
	rows := make([]dto.HistoricRate, 0, len(history.Rates))
	for date, table := range history.Rates {
		for code, rate := range table {
			rows = append(rows, dto.HistoricRate{
				Date:         date,
				CurrencyCode: code,
				Rate:         rate,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[j].Date.Before(rows[i].Date)
		}
		return rows[i].CurrencyCode > rows[j].CurrencyCode
	})
	return rows
}

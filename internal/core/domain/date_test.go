package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-02-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-14", d.String())

	_, err = domain.ParseDate("14/02/2025")
	assert.Error(t, err)

	_, err = domain.ParseDate("")
	assert.Error(t, err)
}

func TestDateComparisons(t *testing.T) {
	earlier := domain.NewDate(2025, time.February, 13)
	later := domain.NewDate(2025, time.February, 14)

	assert.True(t, earlier.Before(later))
	assert.True(t, later.After(earlier))
	assert.False(t, earlier.Before(earlier))

	// Dates built through different paths compare equal.
	parsed, err := domain.ParseDate("2025-02-14")
	require.NoError(t, err)
	assert.Equal(t, later, parsed)
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	ts := time.Date(2025, time.February, 14, 18, 30, 12, 0, time.UTC)
	assert.Equal(t, domain.NewDate(2025, time.February, 14), domain.DateOf(ts))
}

// Range payloads key their rate tables by date string, so Date has to work as
// a JSON map key in both directions.
func TestDateAsJSONMapKey(t *testing.T) {
	payload := []byte(`{"2025-02-14":{"USD":1.0478},"2025-02-13":{"USD":1.0465}}`)

	var rates map[domain.Date]map[string]decimal.Decimal
	require.NoError(t, json.Unmarshal(payload, &rates))
	require.Len(t, rates, 2)

	day := domain.NewDate(2025, time.February, 14)
	assert.Equal(t, "1.0478", rates[day]["USD"].String())

	out, err := json.Marshal(rates)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"2025-02-13"`)
}

func TestDateZeroValue(t *testing.T) {
	var d domain.Date
	assert.True(t, d.IsZero())
	assert.False(t, domain.NewDate(2025, time.January, 1).IsZero())
}

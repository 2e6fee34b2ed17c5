package history

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestHandler_History(t *testing.T) {
	gormDB, sqlMock := setupMockDB(t)
	svc := NewService(gormDB, zap.NewNop())

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	t.Run("returns recorded changes", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "run_id", "sku", "supplier_key", "variant_id", "old_price", "new_price", "created_at"}).
			AddRow(1, "run-1", "AB-10", "10", "v1", "10.00", "12.00", time.Now())
		sqlMock.ExpectQuery("SELECT \\* FROM `price_changes` WHERE sku = \\?").
			WithArgs("AB-10").
			WillReturnRows(rows)

		resp, err := app.Test(httptest.NewRequest("GET", "/history/AB-10", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			SKU     string        `json:"sku"`
			Changes []PriceChange `json:"changes"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "AB-10", body.SKU)
		require.Len(t, body.Changes, 1)
		assert.Equal(t, "AB-10", body.Changes[0].SKU)
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		sqlMock.ExpectQuery("SELECT \\* FROM `price_changes` WHERE sku = \\?").
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "run_id", "sku", "supplier_key", "variant_id", "old_price", "new_price", "created_at"}))

		resp, err := app.Test(httptest.NewRequest("GET", "/history/NOPE", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

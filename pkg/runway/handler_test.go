package runway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/runwayclock/runwayclock/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPreviewTest() (*Handler, *utils.MockClock) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	return NewHandler(clock), clock
}

func postPreview(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/runway/preview", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Preview(w, req)
	return w
}

func TestPreview(t *testing.T) {

	t.Run("computes projection for burning scenario", func(t *testing.T) {
		handler, clock := setupPreviewTest()

		w := postPreview(t, handler, PreviewRequestDTO{
			Expenses:     []ItemDTO{{Name: "Rent", AmountMonthly: 200000}, {Name: "Food", AmountMonthly: 100000}},
			Income:       []ItemDTO{{Name: "Freelance", AmountMonthly: 100000}},
			StartingCash: 6000000,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var response ProjectionDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.InDelta(t, 6666.67, response.DailyBurn, 0.01)
		require.NotNil(t, response.RunwayDays)
		assert.InDelta(t, 900.0, *response.RunwayDays, 0.01)
		require.NotNil(t, response.EndDate)
		assert.Equal(t, clock.Now().Add(900*24*time.Hour).Format(time.RFC3339), *response.EndDate)
		assert.False(t, response.Profitable)
	})

	t.Run("surplus produces null runway and end date", func(t *testing.T) {
		handler, _ := setupPreviewTest()

		w := postPreview(t, handler, PreviewRequestDTO{
			Expenses:     []ItemDTO{{Name: "Rent", AmountMonthly: 50000}},
			Income:       []ItemDTO{{Name: "Salary", AmountMonthly: 80000}},
			StartingCash: 100000,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var response ProjectionDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 0.0, response.DailyBurn)
		assert.Nil(t, response.RunwayDays)
		assert.Nil(t, response.EndDate)
		assert.True(t, response.Profitable)
	})

	t.Run("rejects negative amounts before computing", func(t *testing.T) {
		handler, _ := setupPreviewTest()

		w := postPreview(t, handler, PreviewRequestDTO{
			Expenses:     []ItemDTO{{Name: "Rent", AmountMonthly: -100}},
			StartingCash: 1000,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unnamed items", func(t *testing.T) {
		handler, _ := setupPreviewTest()

		w := postPreview(t, handler, PreviewRequestDTO{
			Income:       []ItemDTO{{Name: "", AmountMonthly: 100}},
			StartingCash: 1000,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects negative starting cash", func(t *testing.T) {
		handler, _ := setupPreviewTest()

		w := postPreview(t, handler, PreviewRequestDTO{StartingCash: -1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler, _ := setupPreviewTest()

		req := httptest.NewRequest(http.MethodPost, "/api/runway/preview", bytes.NewBufferString("{nope"))
		w := httptest.NewRecorder()
		handler.Preview(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

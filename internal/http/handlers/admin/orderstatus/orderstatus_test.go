package orderstatus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

type OrderServiceMock struct {
	mock.Mock
}

func (m *OrderServiceMock) SetStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, id string, body interface{}) *http.Request {
	t.Helper()

	var bodyBytes []byte
	switch v := body.(type) {
	case string:
		bodyBytes = []byte(v)
	default:
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/"+id, bytes.NewReader(bodyBytes))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	return req.WithContext(ctx)
}

func TestOrderStatusHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		requestBody    interface{}
		mockOrder      *models.Order
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "approve order",
			orderID:        "5",
			requestBody:    Request{Status: models.OrderStatusApproved},
			mockOrder:      &models.Order{ID: 5, Status: models.OrderStatusApproved},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid order id",
			orderID:        "abc",
			requestBody:    Request{Status: models.OrderStatusApproved},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid order id",
		},
		{
			name:           "invalid status value",
			orderID:        "5",
			requestBody:    Request{Status: "PENDING"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Status has an unknown value",
		},
		{
			name:           "order not found",
			orderID:        "5",
			requestBody:    Request{Status: models.OrderStatusRejected},
			mockErr:        storage.ErrOrderNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "order not found",
		},
		{
			name:           "order already settled",
			orderID:        "5",
			requestBody:    Request{Status: models.OrderStatusApproved},
			mockErr:        storage.ErrOrderNotPending,
			wantStatusCode: http.StatusConflict,
			wantError:      "order is already settled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(OrderServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockOrder != nil || tt.mockErr != nil {
				serviceMock.On("SetStatus", mock.Anything, int64(5), tt.requestBody.(Request).Status).
					Return(tt.mockOrder, tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tt.orderID, tt.requestBody))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}

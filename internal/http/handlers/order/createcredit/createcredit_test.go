package createcredit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/atompoint/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/services/order"
)

type OrderServiceMock struct {
	mock.Mock
}

func (m *OrderServiceMock) CreateCreditOrder(ctx context.Context, user *models.User, amount int64, proofImage string) (*models.Order, error) {
	args := m.Called(ctx, user, amount, proofImage)
	created, _ := args.Get(0).(*models.Order)
	return created, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateCreditHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: 100001, Username: "testuser"}

	tests := []struct {
		name           string
		requestBody    interface{}
		withUser       bool
		mockOrder      *models.Order
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid order",
			requestBody:    Request{Amount: 5000, ProofImage: "proof.png"},
			withUser:       true,
			mockOrder:      &models.Order{ID: 1, Status: models.OrderStatusPending},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "unauthorized",
			requestBody:    Request{Amount: 5000, ProofImage: "proof.png"},
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing proof",
			requestBody:    Request{Amount: 5000},
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field ProofImage is a required field",
		},
		{
			name:           "below minimum",
			requestBody:    Request{Amount: 500, ProofImage: "proof.png"},
			withUser:       true,
			mockErr:        order.ErrBelowMinimum,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "amount is below the minimum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(OrderServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockOrder != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				serviceMock.On("CreateCreditOrder", mock.Anything, user, req.Amount, req.ProofImage).
					Return(tt.mockOrder, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/orders/credit", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.UserKey, user)
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

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

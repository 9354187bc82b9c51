package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/plp-users/internal/services/auth"
)

// Мок сервиса с методом Register
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, email, username, password string) (int64, error) {
	args := m.Called(ctx, email, username, password)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockID         int64
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantBody       map[string]any
	}{
		{
			name:           "valid registration",
			requestBody:    Request{Email: "a@x.com", Username: "alice", Password: "hunter2"},
			mockID:         1,
			callsService:   true,
			wantStatusCode: http.StatusCreated,
			wantBody:       map[string]any{"message": "User registered successfully"},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"error": "invalid request body"},
		},
		{
			name:           "duplicate credential",
			requestBody:    Request{Email: "a@x.com", Username: "alice", Password: "hunter2"},
			mockErr:        auth.ErrDuplicateCredential,
			callsService:   true,
			wantStatusCode: http.StatusConflict,
			wantBody:       map[string]any{"error": "Username or email already exists"},
		},
		{
			name:           "storage error is not leaked",
			requestBody:    Request{Email: "a@x.com", Username: "alice", Password: "hunter2"},
			mockErr:        &auth.StorageError{Op: "op", Err: errors.New("pq: relation users does not exist")},
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       map[string]any{"error": "Error registering user"},
		},
		{
			name:           "hashing error",
			requestBody:    Request{Email: "a@x.com", Username: "alice", Password: "hunter2"},
			mockErr:        &auth.HashingError{Op: "op", Err: errors.New("boom")},
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       map[string]any{"error": "Error registering user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			handler := New(newNoopLogger(), svc)

			if tt.callsService {
				req := tt.requestBody.(Request)
				svc.On("Register", mock.Anything, req.Email, req.Username, req.Password).
					Return(tt.mockID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)

			svc.AssertExpectations(t)
		})
	}
}

func TestRequest_LogValueHidesPassword(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("request", slog.Any("request", Request{Email: "a@x.com", Username: "alice", Password: "hunter2"}))

	assert.True(t, strings.Contains(buf.String(), "alice"))
	assert.False(t, strings.Contains(buf.String(), "hunter2"))
}

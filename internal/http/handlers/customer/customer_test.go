package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allwaysenergy/backoffice/internal/models"
)

// MockService реализует интерфейс customer.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Read(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, req models.DummyCustomer) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, req models.DummyCustomer) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc Service) http.Handler {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Get("/api/clientes", h.List)
	r.Post("/api/clientes", h.Create)
	r.Get("/api/clientes/{id}", h.Read)
	r.Put("/api/clientes/{id}", h.Update)
	r.Delete("/api/clientes/{id}", h.Delete)
	return r
}

func TestCustomerHandlers(t *testing.T) {
	juan := models.DummyCustomer{Name: "Juan García", Email: "juan.garcia@email.com", Phone: "666123456"}

	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "список с поиском",
			method: http.MethodGet,
			url:    "/api/clientes?q=garcia",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, models.CustomerFilter{Search: "garcia"}).
					Return([]*models.Customer{{ID: 1, Name: "Juan García"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"nombre":"Juan García"`,
		},
		{
			name:   "пустой список",
			method: http.MethodGet,
			url:    "/api/clientes",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, models.CustomerFilter{}).Return([]*models.Customer{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:   "чтение",
			method: http.MethodGet,
			url:    "/api/clientes/3",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(3)).Return(&models.Customer{ID: 3, Name: "Carlos Ruiz"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":3`,
		},
		{
			name:   "чтение несуществующего",
			method: http.MethodGet,
			url:    "/api/clientes/99",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(99)).Return(nil, fmt.Errorf("customer.Read: %w", models.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"not found"}`,
		},
		{
			name:           "некорректный id",
			method:         http.MethodGet,
			url:            "/api/clientes/abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
		{
			name:   "создание",
			method: http.MethodPost,
			url:    "/api/clientes",
			body:   `{"nombre":"Juan García","email":"juan.garcia@email.com","telefono":"666123456"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, juan).Return(int64(7), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":7,"message":"Cliente creado correctamente"}`,
		},
		{
			name:           "создание без имени",
			method:         http.MethodPost,
			url:            "/api/clientes",
			body:           `{"email":"juan.garcia@email.com"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field nombre is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			method:         http.MethodPost,
			url:            "/api/clientes",
			body:           `not a json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:   "обновление",
			method: http.MethodPut,
			url:    "/api/clientes/7",
			body:   `{"nombre":"Juan García","email":"juan.garcia@email.com","telefono":"666123456"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(7), juan).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Cliente actualizado correctamente"}`,
		},
		{
			name:   "удаление",
			method: http.MethodDelete,
			url:    "/api/clientes/7",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(7)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Cliente eliminado correctamente"}`,
		},
		{
			name:   "ошибка хранилища",
			method: http.MethodDelete,
			url:    "/api/clientes/7",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(7)).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			newRouter(mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

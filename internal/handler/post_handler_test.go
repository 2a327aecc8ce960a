package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"findhouse/internal/auth"
	"findhouse/internal/model"
	"findhouse/internal/repository"
	"findhouse/internal/service"
)

// MockPostService is a mock implementation of service.PostService.
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, claims *auth.Claims, in service.CreatePostInput) (*model.Post, error) {
	args := m.Called(ctx, claims, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) ListPending(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostService) ListApproved(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostService) Approve(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, claims *auth.Claims, id uuid.UUID, in service.UpdatePostInput) (*model.Post, error) {
	args := m.Called(ctx, claims, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	args := m.Called(ctx, claims, id)
	return args.Error(0)
}

func (m *MockPostService) Search(ctx context.Context, filter repository.SearchFilter) (*service.SearchResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockPostService) Rate(ctx context.Context, id uuid.UUID, stars int) (*model.Post, error) {
	args := m.Called(ctx, id, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

func TestPostHandler_Search_QueryParsing(t *testing.T) {
	t.Run("forwards parsed filters", func(t *testing.T) {
		mockService := new(MockPostService)
		mockService.On("Search", mock.Anything, mock.MatchedBy(func(f repository.SearchFilter) bool {
			return f.MinPrice != nil && f.MinPrice.Equal(decimalFromString(t, "100")) &&
				f.MaxPrice != nil && f.MaxPrice.Equal(decimalFromString(t, "250.50")) &&
				f.Location == "Berlin" &&
				f.Keyword == "balcony" &&
				f.Page == 2 &&
				f.Limit == 5
		})).Return(&service.SearchResult{Results: []model.Post{}, Total: 0, Page: 2, Limit: 5}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/posts/search?minPrice=100&maxPrice=250.50&location=Berlin&keyword=balcony&page=2&limit=5", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPostHandler(mockService)
		assert.NoError(t, h.Search(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/posts/search?minPrice=cheap", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPostHandler(new(MockPostService))
		err := h.Search(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("rejects malformed page", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/posts/search?page=first", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPostHandler(new(MockPostService))
		err := h.Search(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestPostHandler_Rate(t *testing.T) {
	postID := uuid.New()

	t.Run("valid rating reaches the service", func(t *testing.T) {
		mockService := new(MockPostService)
		mockService.On("Rate", mock.Anything, postID, 4).Return(&model.Post{ID: postID, RatingAvg: 4, RatingCount: 1}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/posts/"+postID.String()+"/rate", strings.NewReader(`{"stars":4}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(postID.String())

		h := NewPostHandler(mockService)
		assert.NoError(t, h.Rate(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("out-of-range stars never reach the service", func(t *testing.T) {
		mockService := new(MockPostService)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/posts/"+postID.String()+"/rate", strings.NewReader(`{"stars":9}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(postID.String())

		h := NewPostHandler(mockService)
		err := h.Rate(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockService.AssertNotCalled(t, "Rate")
	})

	t.Run("malformed post ID", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/posts/not-a-uuid/rate", strings.NewReader(`{"stars":4}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		h := NewPostHandler(new(MockPostService))
		err := h.Rate(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestPostHandler_Create_RequiresToken(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"t","content":"c"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewPostHandler(new(MockPostService))
	err := h.Create(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

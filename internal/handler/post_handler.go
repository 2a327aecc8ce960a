package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"findhouse/internal/auth"
	"findhouse/internal/errors"
	"findhouse/internal/model"
	"findhouse/internal/repository"
	"findhouse/internal/service"
)

// PostHandler handles listing endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a listing creation request. There is no
// status field: moderation state is not caller-controlled.
type CreatePostRequest struct {
	Title    string           `json:"title" validate:"required"`
	Content  string           `json:"content" validate:"required"`
	Note     string           `json:"note"`
	Location string           `json:"location"`
	Price    *decimal.Decimal `json:"price"`
	Images   []string         `json:"images" validate:"omitempty,max=10"`
}

// UpdatePostRequest represents a partial listing update.
type UpdatePostRequest struct {
	Title    *string          `json:"title"`
	Content  *string          `json:"content"`
	Note     *string          `json:"note"`
	Location *string          `json:"location"`
	Price    *decimal.Decimal `json:"price"`
}

// RateRequest represents a rating submission.
type RateRequest struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}

// Create godoc
// @Summary Create a listing (starts pending moderation)
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Listing data"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := auth.ClaimsFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid or expired token",
			Code:  "INVALID_TOKEN",
		})
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.Create(c.Request().Context(), claims, service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Note:     req.Note,
		Location: req.Location,
		Price:    req.Price,
		Images:   req.Images,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, post)
}

// Get godoc
// @Summary Fetch a single listing
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}

// ListPending godoc
// @Summary List listings awaiting moderation
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /posts/pending [get]
func (h *PostHandler) ListPending(c echo.Context) error {
	posts, err := h.postService.ListPending(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, posts)
}

// ListApproved godoc
// @Summary List publicly visible listings
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts/approved [get]
func (h *PostHandler) ListApproved(c echo.Context) error {
	posts, err := h.postService.ListApproved(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, posts)
}

// Approve godoc
// @Summary Approve a pending listing
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/approve/{id} [patch]
func (h *PostHandler) Approve(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Approve(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Update a listing's mutable fields
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body UpdatePostRequest true "Fields to update"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	claims, err := auth.ClaimsFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid or expired token",
			Code:  "INVALID_TOKEN",
		})
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	post, err := h.postService.Update(c.Request().Context(), claims, id, service.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Note:     req.Note,
		Location: req.Location,
		Price:    req.Price,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a listing
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, err := auth.ClaimsFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid or expired token",
			Code:  "INVALID_TOKEN",
		})
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), claims, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "post deleted",
	})
}

// Search godoc
// @Summary Search approved listings with filters and paging
// @Tags posts
// @Produce json
// @Param minPrice query number false "Minimum price (inclusive)"
// @Param maxPrice query number false "Maximum price (inclusive)"
// @Param location query string false "Location substring"
// @Param keyword query string false "Keyword across title, content, note and location"
// @Param status query string false "Moderation status (defaults to approved)"
// @Param page query int false "1-based page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} service.SearchResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	filter, err := parseSearchFilter(c)
	if err != nil {
		return err
	}

	result, err := h.postService.Search(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Rate godoc
// @Summary Append a 1-5 star rating to a listing
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body RateRequest true "Rating"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/rate [post]
func (h *PostHandler) Rate(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "rating must be between 1 and 5",
			Code:  "INVALID_RATING",
		})
	}

	post, err := h.postService.Rate(c.Request().Context(), id, req.Stars)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}

func parsePostID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid post ID",
			Code:  "INVALID_POST_ID",
		})
	}
	return id, nil
}

func parseSearchFilter(c echo.Context) (repository.SearchFilter, error) {
	var filter repository.SearchFilter

	if raw := c.QueryParam("minPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, badQueryParam("minPrice")
		}
		filter.MinPrice = &price
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, badQueryParam("maxPrice")
		}
		filter.MaxPrice = &price
	}
	filter.Location = c.QueryParam("location")
	filter.Keyword = c.QueryParam("keyword")
	filter.Status = model.PostStatus(c.QueryParam("status"))

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, badQueryParam("page")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, badQueryParam("limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func badQueryParam(name string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid query parameter: " + name,
		Code:  "INVALID_QUERY_PARAM",
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/content-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /users/:id/posts.
//
// @Summary      Create a post for a user (owner or admin)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Author user id"
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /users/{id}/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), principal(c), c.Param("id"), ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postResponse{Post: post})
}

// ListByUser handles GET /users/:id/posts.
//
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Author user id"
// @Success      200  {object}  postsResponse
// @Failure      404  {object}  errorBody
// @Router       /users/{id}/posts [get]
func (h *PostHandler) ListByUser(c echo.Context) error {
	posts, err := h.service.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// List handles GET /posts.
//
// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postsResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// FindByTitle handles GET /posts/title/:title.
//
// @Summary      Find posts with an exact title
// @Tags         posts
// @Produce      json
// @Param        title  path      string  true  "Title"
// @Success      200    {object}  postsResponse
// @Failure      404    {object}  errorBody
// @Router       /posts/title/{title} [get]
func (h *PostHandler) FindByTitle(c echo.Context) error {
	posts, err := h.service.FindByTitle(c.Request().Context(), pathParam(c, "title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// Search handles GET /posts/search/:keyword.
//
// @Summary      Search posts by title keyword
// @Tags         posts
// @Produce      json
// @Param        keyword  path      string  true  "Keyword"
// @Success      200      {object}  postsResponse
// @Failure      404      {object}  errorBody
// @Router       /posts/search/{keyword} [get]
func (h *PostHandler) Search(c echo.Context) error {
	posts, err := h.service.SearchByTitle(c.Request().Context(), pathParam(c, "keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

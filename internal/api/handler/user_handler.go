package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/content-api/internal/core/domain"
	"github.com/99minutos/content-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users.
//
// @Summary      Create a user (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), principal(c), ports.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// List handles GET /users.
//
// @Summary      List all users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user profile (owner or admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), principal(c), c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Age:      req.Age,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Delete handles DELETE /users/:id. The user's posts are removed with it.
//
// @Summary      Delete a user (owner or admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteUserResponse
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.service.Delete(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{Message: "user deleted", User: user})
}

// FindByAge handles GET /users/age/:age.
//
// @Summary      Find users of an exact age
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        age  path      int  true  "Age"
// @Success      200  {object}  usersResponse
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/age/{age} [get]
func (h *UserHandler) FindByAge(c echo.Context) error {
	age, err := ageParam(c)
	if err != nil {
		return err
	}
	users, err := h.service.FindByAge(c.Request().Context(), principal(c), age)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// FindByAgeAbove handles GET /users/age-above/:age.
//
// @Summary      Find users older than an age
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        age  path      int  true  "Exclusive lower bound"
// @Success      200  {object}  usersResponse
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users/age-above/{age} [get]
func (h *UserHandler) FindByAgeAbove(c echo.Context) error {
	age, err := ageParam(c)
	if err != nil {
		return err
	}
	users, err := h.service.FindByAgeGreaterThan(c.Request().Context(), principal(c), age)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// FindByEmail handles GET /users/email/:email.
//
// @Summary      Find a user by email (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  userResponse
// @Failure      401    {object}  errorBody
// @Failure      403    {object}  errorBody
// @Failure      404    {object}  errorBody
// @Router       /users/email/{email} [get]
func (h *UserHandler) FindByEmail(c echo.Context) error {
	user, err := h.service.FindByEmail(c.Request().Context(), principal(c), pathParam(c, "email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

func ageParam(c echo.Context) (int, error) {
	age, err := strconv.Atoi(c.Param("age"))
	if err != nil || age < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "age must be a non-negative integer")
	}
	return age, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haulmatic/user-directory/internal/api/metrics"
	"github.com/haulmatic/user-directory/internal/core/ports"
)

// UserHandler handles user administration requests.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details; role defaults to user"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "create", invalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return h.fail(c, "create", err)
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return h.fail(c, "create", err)
	}

	metrics.UserOperationsTotal.WithLabelValues("create", "ok").Inc()
	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Description  Only non-empty fields are applied. A new password is hashed before storing.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  updateUserResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "update", invalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return h.fail(c, "update", err)
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return h.fail(c, "update", err)
	}

	metrics.UserOperationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, updateUserResponse{Message: "User updated successfully", User: user})
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Description  Users with the admin role cannot be deleted.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, "delete", err)
	}

	metrics.UserOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// fail renders known domain errors and hands anything else to the
// central error handler.
func (h *UserHandler) fail(c echo.Context, op string, err error) error {
	code, msg, ok := ResolveDomainError(err)
	if !ok {
		metrics.UserOperationsTotal.WithLabelValues(op, "error").Inc()
		return err
	}
	metrics.UserOperationsTotal.WithLabelValues(op, http.StatusText(code)).Inc()
	return c.JSON(code, messageResponse{Message: msg})
}

package handler

import (
	"net/http"
	"strconv"

	"giftstock-backend/internal/middleware"
	"giftstock-backend/internal/model"
	"giftstock-backend/internal/service"
	"giftstock-backend/pkg/pagination"
	"giftstock-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	{
		users.GET("", middleware.RequireRole(model.RoleManager), h.ListUsers)
		users.POST("", middleware.RequireRole(model.RoleManager), h.CreateUser)
		users.GET("/:id", middleware.RequireRole(model.RoleManager), h.GetUser)
		users.PUT("/:id", middleware.RequireRole(model.RoleManager), h.UpdateUser)
		users.DELETE("/:id", middleware.RequireRole(model.RoleManager), h.DeleteUser)
	}
}

// ListUsers returns a paginated list of holders
// @Summary      List holders
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int   false  "Page number (default 1)"
// @Param        limit       query  int   false  "Items per page (default 20)"
// @Param        active_only query  bool  false  "Only active holders"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active_only") == "true"

	users, total, err := h.userService.ListUsers(c.Request.Context(), activeOnly, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// CreateUser registers a new holder
// @Summary      Create holder
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        user  body      service.CreateUserRequest  true  "Holder"
// @Success      201   {object}  response.Response{data=service.UserResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// GetUser returns one holder by id
// @Summary      Get holder
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Holder id"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid holder id"))
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser updates a holder's profile, role or active flag
// @Summary      Update holder
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Holder id"
// @Param        user  body      service.UpdateUserRequest  true  "Fields to update"
// @Success      200   {object}  response.Response{data=service.UserResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid holder id"))
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser removes a holder, cascading over everything they own
// @Summary      Delete holder
// @Description  Removes the holder, their inventory records (with cleanup ledger entries) and their requests
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Holder id"
// @Success      200  {object}  response.Response{data=service.DeleteUserResult}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid holder id"))
		return
	}

	result, err := h.userService.DeleteUser(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

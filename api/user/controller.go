package user

import (
	"strconv"

	"github.com/jsupa/turbo-template/api/response"
	userapp "github.com/jsupa/turbo-template/application/user"
	"github.com/jsupa/turbo-template/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller User controller
type Controller struct {
	userService *userapp.ApplicationService
}

// NewController Create user controller
func NewController(userService *userapp.ApplicationService) *Controller {
	return &Controller{
		userService: userService,
	}
}

// RegisterRoutes Register user routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("", c.CreateUser)
		userGroup.GET("", c.ListUsers)
		userGroup.GET("/:id", c.GetUser)
		userGroup.PUT("/:id/name", c.RenameUser)
	}
}

// CreateUser Create user
func (c *Controller) CreateUser(ctx *gin.Context) {
	var req userapp.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, user, "User created successfully")
}

// GetUser Get user by ID
func (c *Controller) GetUser(ctx *gin.Context) {
	user, err := c.userService.GetUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User retrieved successfully")
}

// ListUsers List users; ?email= narrows the result to that user
func (c *Controller) ListUsers(ctx *gin.Context) {
	if email := ctx.Query("email"); email != "" {
		user, err := c.userService.GetUserByEmail(ctx.Request.Context(), email)
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, []*userapp.UserResponse{user}, "Users retrieved successfully")
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.HandleAppError(ctx, errors.Validation("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	users, err := c.userService.ListUsers(ctx.Request.Context(), limit)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, users, "Users retrieved successfully")
}

// RenameUser Change user name
func (c *Controller) RenameUser(ctx *gin.Context) {
	var req userapp.UpdateUserNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	user, err := c.userService.RenameUser(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, user, "User updated successfully")
}

package handler

import (
	"net/http"

	"anoa.com/tradeaid/internal/service"
	"anoa.com/tradeaid/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register handles POST /api/users/register, the minimal credentials-only
// registration. Profile data comes later through UpdateProfile.
func (h *UserHandler) Register(c *gin.Context) {
	var input service.BasicRegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// UpdateProfile handles POST /api/users/profile. The body is a multipart
// form; every field except email is optional, and an optional
// profile_picture file is stored before the record is updated.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input service.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	picture, cleanup, err := formFile(c, "profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read profile picture"})
		return
	}
	defer cleanup()

	user, err := h.userService.UpdateProfile(c.Request.Context(), input, picture)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

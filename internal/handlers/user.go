package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/thereayou/relyexchange/internal/handlers/dto"
	"github.com/thereayou/relyexchange/internal/middleware"
	"github.com/thereayou/relyexchange/internal/models"
	"github.com/thereayou/relyexchange/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c).String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// SearchUsers matches q against name and email.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q, err := listQuery(c, services.OrderAlphabet)
	if err != nil {
		respondError(c, err)
		return
	}

	users, pagination, err := h.users.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": lo.Map(users, func(u models.User, _ int) dto.UserResponse {
			return dto.NewUserResponse(&u)
		}),
		"pagination": pagination,
	})
}

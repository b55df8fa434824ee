package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/handlers/dto"
	"github.com/thereayou/relyexchange/internal/middleware"
	"github.com/thereayou/relyexchange/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Add(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "content is required")
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c).String(), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	q, err := listQuery(c, services.OrderOldest)
	if err != nil {
		respondError(c, err)
		return
	}

	comments, pagination, err := h.comments.List(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "pagination": pagination})
}

func (h *CommentHandler) Update(c *gin.Context) {
	upd, err := services.DecodeCommentUpdate(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("comment_id"), middleware.CurrentUserID(c).String(), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully", "comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("comment_id"), middleware.CurrentUserID(c).String()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

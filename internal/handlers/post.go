package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/handlers/dto"
	"github.com/thereayou/relyexchange/internal/middleware"
	"github.com/thereayou/relyexchange/internal/services"
)

const attachmentField = "attachment"

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create accepts JSON, or multipart form data when an attachment is sent.
// The :id path segment is the author.
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "No data provided")
		return
	}

	in := services.CreatePostInput{
		Content:  req.Content,
		Mentions: req.Mentions,
		Shares:   req.Shares,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if header, err := c.FormFile(attachmentField); err == nil {
			file, err := header.Open()
			if err != nil {
				badRequest(c, "could not read attachment")
				return
			}
			defer file.Close()
			in.Attachment = &services.Attachment{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	}

	post, err := h.posts.Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	upd, err := services.DecodePostUpdate(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c).String(), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c).String()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) ListByUser(c *gin.Context) {
	q, err := listQuery(c, services.OrderNewest)
	if err != nil {
		respondError(c, err)
		return
	}

	posts, pagination, err := h.posts.ListByUser(c.Request.Context(), c.Param("user_id"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "pagination": pagination})
}

func (h *PostHandler) Feed(c *gin.Context) {
	q, err := listQuery(c, services.OrderNewest)
	if err != nil {
		respondError(c, err)
		return
	}

	posts, pagination, err := h.posts.Feed(c.Request.Context(), middleware.CurrentUserID(c).String(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "pagination": pagination})
}

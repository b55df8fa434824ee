package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/services"
)

const contactFileField = "contact"

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Upload imports a CSV address book for the user in the path.
func (h *ContactHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(contactFileField)
	if err != nil {
		badRequest(c, "No file part in the request.")
		return
	}
	if header.Filename == "" {
		badRequest(c, "No file selected for uploading.")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		badRequest(c, "File is not a CSV file.")
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, fmt.Sprintf("Error reading file: %v", err))
		return
	}
	defer file.Close()

	inserted, err := h.contacts.Import(c.Request.Context(), c.Param("user_id"), file)
	if err != nil {
		respondError(c, err)
		return
	}

	if inserted == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No new contacts to insert."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Successfully inserted %d contacts.", inserted)})
}

func (h *ContactHandler) List(c *gin.Context) {
	q, err := listQuery(c, services.OrderOldest)
	if err != nil {
		respondError(c, err)
		return
	}

	contacts, pagination, err := h.contacts.List(c.Request.Context(), c.Param("user_id"), services.ContactListQuery{
		ListQuery:      q,
		BookmarkedOnly: c.Query("bookmarked") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"contacts": contacts, "pagination": pagination}
	if len(contacts) == 0 {
		resp["message"] = "No contacts found for this page."
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contacts.Get(c.Request.Context(), c.Param("user_id"), c.Param("contact_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

func (h *ContactHandler) Update(c *gin.Context) {
	upd, err := services.DecodeContactUpdate(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), c.Param("user_id"), c.Param("contact_id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact updated successfully", "contact": contact})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("user_id"), c.Param("contact_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

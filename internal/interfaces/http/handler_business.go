package http

import (
	"net/http"

	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
)

// GetBusinesses returns the caller's businesses, or a single one when ?id= is
// given.
func (h *Handler) GetBusinesses(c *gin.Context) {
	userID := currentUserID(c)

	if id := c.Query("id"); id != "" {
		biz, err := h.businesses.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, biz)
		return
	}

	businesses, err := h.businesses.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, businesses)
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	var in usecases.BusinessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	in.Name = TruncateString(SanitizeString(in.Name), MaxNameLength)

	biz, err := h.businesses.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

func (h *Handler) UpdateBusiness(c *gin.Context) {
	var patch usecases.BusinessPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	biz, err := h.businesses.Update(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

func (h *Handler) DeleteBusiness(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	if err := h.businesses.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business deleted"})
}

package http

import (
	"net/http"

	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetModules(c *gin.Context) {
	userID := currentUserID(c)

	if id := c.Query("id"); id != "" {
		m, err := h.modules.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
		return
	}

	modules, err := h.modules.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

func (h *Handler) CreateModule(c *gin.Context) {
	var in usecases.ModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	in.Name = TruncateString(SanitizeString(in.Name), MaxNameLength)

	m, err := h.modules.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateModule(c *gin.Context) {
	var patch usecases.ModulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	m, err := h.modules.Update(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteModule(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	if err := h.modules.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module deleted"})
}

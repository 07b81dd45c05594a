package http

import (
	"net/http"

	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

func (h *Handler) GetChatbots(c *gin.Context) {
	userID := currentUserID(c)

	if id := c.Query("id"); id != "" {
		cb, err := h.chatbots.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cb)
		return
	}

	chatbots, err := h.chatbots.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatbots)
}

func (h *Handler) CreateChatbot(c *gin.Context) {
	var in usecases.ChatbotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	in.Name = TruncateString(SanitizeString(in.Name), MaxNameLength)

	cb, err := h.chatbots.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

func (h *Handler) UpdateChatbot(c *gin.Context) {
	var patch usecases.ChatbotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cb, err := h.chatbots.Update(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cb)
}

func (h *Handler) DeleteChatbot(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}

	if err := h.chatbots.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chatbot deleted"})
}

// GetChatbotQR returns a PNG QR code for the chatbot's share link.
func (h *Handler) GetChatbotQR(c *gin.Context) {
	link, err := h.chatbots.ShareLink(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

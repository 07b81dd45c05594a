package http

import (
	"errors"
	"net/http"
	"strings"

	"botpanel/internal/interfaces"
	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth       *usecases.AuthUsecase
	businesses *usecases.BusinessUsecase
	chatbots   *usecases.ChatbotUsecase
	modules    *usecases.ModuleUsecase
	userAdmin  *usecases.UserAdminUsecase
	deployer   interfaces.Deployer
}

func NewHandler(auth *usecases.AuthUsecase, businesses *usecases.BusinessUsecase, chatbots *usecases.ChatbotUsecase, modules *usecases.ModuleUsecase, userAdmin *usecases.UserAdminUsecase, deployer interfaces.Deployer) *Handler {
	return &Handler{
		auth:       auth,
		businesses: businesses,
		chatbots:   chatbots,
		modules:    modules,
		userAdmin:  userAdmin,
		deployer:   deployer,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware) {
	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public Auth Routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// Protected Resource Routes
	api := r.Group("")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/business", h.GetBusinesses)
		api.POST("/business", h.CreateBusiness)
		api.PATCH("/business", h.UpdateBusiness)
		api.DELETE("/business", h.DeleteBusiness)

		api.GET("/chatbot", h.GetChatbots)
		api.POST("/chatbot", h.CreateChatbot)
		api.PATCH("/chatbot", h.UpdateChatbot)
		api.DELETE("/chatbot", h.DeleteChatbot)
		api.GET("/chatbot/:id/qr", h.GetChatbotQR)

		api.GET("/module", h.GetModules)
		api.POST("/module", h.CreateModule)
		api.PATCH("/module", h.UpdateModule)
		api.DELETE("/module", h.DeleteModule)

		api.POST("/deploy", h.Deploy)
	}

	// Admin-only Routes
	admin := r.Group("")
	admin.Use(middleware.AuthRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/user", h.GetUsers)
		admin.PATCH("/user", h.UpdateUser)
		admin.DELETE("/user", h.DeleteUser)
		admin.GET("/log", h.GetLogs)
	}
}

// currentUserID returns the authenticated identity set by AuthRequired.
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	id, _ := userID.(string)
	return id
}

// respondError maps usecase sentinels to status codes. Anything unexpected
// becomes a 500 with the raw message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecases.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrForbidden),
		errors.Is(err, usecases.ErrLocked),
		errors.Is(err, usecases.ErrSelfAction):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, usecases.ErrEmailTaken),
		errors.Is(err, usecases.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(SanitizeString(req.Email)))
	if !ValidEmail(req.Email) || !ValidPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password (min 6 chars)"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Deploy forwards a code bundle reference to the external deployment trigger.
// Failures are surfaced synchronously; nothing is retried or queued.
func (h *Handler) Deploy(c *gin.Context) {
	if h.deployer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Deployment not configured"})
		return
	}

	var req struct {
		S3Bucket string `json:"s3Bucket"`
		S3Key    string `json:"s3Key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.S3Bucket == "" {
		req.S3Bucket = "my-chatbot-bucket"
	}
	if req.S3Key == "" {
		req.S3Key = "chatbot_code.zip"
	}

	result, err := h.deployer.UpdateFunctionCode(c.Request.Context(), req.S3Bucket, req.S3Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lambda updated!", "result": result})
}

package main

import (
	"context"
	"os"

	"botpanel/internal/infrastructure"
	"botpanel/internal/interfaces"
	"botpanel/internal/interfaces/http"
	"botpanel/internal/repository"
	"botpanel/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	// Load .env file (optional in production, env vars may come from the host)
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, relying on environment")
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	if os.Getenv("GIN_MODE") == "release" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Connect to PostgreSQL
	pgClient, err := infrastructure.NewPostgresClient(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer pgClient.Close()

	// Initialize Repositories
	userRepo := repository.NewUserRepository(pgClient.Pool)
	businessRepo := repository.NewBusinessRepository(pgClient.Pool)
	chatbotRepo := repository.NewChatbotRepository(pgClient.Pool)
	moduleRepo := repository.NewModuleRepository(pgClient.Pool)
	auditRepo := repository.NewAuditRepository(pgClient.Pool)

	// Initialize Usecases
	tokens := usecases.NewTokenService(jwtSecret)
	authUsecase := usecases.NewAuthUsecase(userRepo, tokens, log)
	authz := usecases.NewAuthorizer(businessRepo, chatbotRepo, moduleRepo)
	businessUsecase := usecases.NewBusinessUsecase(businessRepo, authz)
	chatbotUsecase := usecases.NewChatbotUsecase(chatbotRepo, businessRepo, authz)
	moduleUsecase := usecases.NewModuleUsecase(moduleRepo, authz)
	userAdminUsecase := usecases.NewUserAdminUsecase(userRepo, businessRepo, auditRepo, log)

	// Ensure Admin User
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := authUsecase.EnsureAdmin(context.Background(), adminEmail, adminPassword); err != nil {
			log.WithError(err).Warn("Failed to ensure admin user")
		}
	}

	// Deployment trigger (optional)
	var deployer interfaces.Deployer
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambdaDeployer, err := infrastructure.NewLambdaDeployer(context.Background(), infrastructure.LambdaConfig{
			Region:          os.Getenv("AWS_REGION"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			FunctionName:    os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		})
		if err != nil {
			log.WithError(err).Warn("Deployment trigger disabled")
		} else {
			deployer = lambdaDeployer
		}
	} else {
		log.Info("AWS_LAMBDA_FUNCTION_NAME not set, deployment trigger disabled")
	}

	// Setup HTTP server
	r := gin.Default()
	handler := http.NewHandler(authUsecase, businessUsecase, chatbotUsecase, moduleUsecase, userAdminUsecase, deployer)
	http.SetupRoutes(r, handler, http.NewMiddleware(tokens))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	log.WithField("addr", addr).Info("Starting HTTP server")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("FAILED to start HTTP Server")
	}
}

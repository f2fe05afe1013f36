package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eclass/internal/api"
	"eclass/internal/app/seed"
	"eclass/internal/app/service"
	"eclass/internal/common/security"
	"eclass/internal/domain/repository"
	"eclass/internal/platform/config"
	"eclass/internal/platform/database"
	"eclass/internal/platform/sessions"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.EnsureSchema(context.Background(), database.DB); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}
	fmt.Println("Database connected.")

	// 4. Initialize Redis session store
	sessions.ConnectRedis()
	defer sessions.CloseRedis()
	sessionStore := sessions.NewRedisStore(sessions.RDB)
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	assignmentRepo := repository.NewPgAssignmentRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, sessionStore)
	userService := service.NewUserService(userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo)

	// 7. Seed demo data (idempotent)
	if config.AppConfig.SeedDemoData {
		if err := seed.Run(context.Background(), userService, assignmentService); err != nil {
			log.Fatalf("Could not seed demo data: %v", err)
		}
	}

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, assignmentService, submissionService, userRepo, sessionStore)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/ManishCody/project-tracker/modules/api"
	cachemod "github.com/ManishCody/project-tracker/modules/cache"
	"github.com/ManishCody/project-tracker/modules/notification"
	taskmod "github.com/ManishCody/project-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	dbPath := getEnv("DB_PATH", "./tasks.db")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "tasks:")

	log.Println("=== Project Tracker ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	if redisAddr != "" {
		log.Printf("Redis: %s (ttl=%s, prefix=%q)", redisAddr, cacheTTL, cachePrefix)
	} else {
		log.Println("Redis: disabled")
	}

	// Create modules
	cacheModule := cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	taskModule := taskmod.NewModule(dbPath)
	apiModule := apimod.NewModule(httpPort)
	notificationModule := notification.NewModule()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules: independent modules first, then dependents.
	app.Register(cacheModule)
	app.Register(notificationModule) // Event consumer (subscribes to task events)
	app.Register(taskModule)         // Core domain (emits events)
	app.Register(apiModule)          // Driving adapter (depends on task)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// The cache module only yields a cache when Redis is configured.
	if c := cacheModule.GetCache(); c != nil {
		taskModule.SetCache(c)
	}

	printStartupInfo(httpPort)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("API available at http://localhost:%d", port)
	log.Println("Endpoints:")
	log.Println("  GET    /health         - Health check")
	log.Println("  GET    /api/tasks      - List tasks (filters: status, priority, project)")
	log.Println("  POST   /api/tasks      - Create a task")
	log.Println("  GET    /api/tasks/:id  - Get a task by ID")
	log.Println("  PUT    /api/tasks/:id  - Update a task (partial)")
	log.Println("  DELETE /api/tasks/:id  - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

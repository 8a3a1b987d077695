package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"match-analytics-system/analytics"
	"match-analytics-system/handlers"
	"match-analytics-system/middleware"
	"match-analytics-system/services"
	"match-analytics-system/textgen"
	"match-analytics-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
	})

	// 🔐 GLOBAL: only Gateway requests allowed (skipped when no token is set)
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	openDota := services.NewOpenDotaClient()
	heroes := services.NewHeroDirectory(openDota)
	benchmarks := analytics.DefaultBenchmarks()

	cache := services.NewResponseCache()
	cache.StartEvictionScheduler()

	textGen := buildTextGenChain()

	analyticsService := services.NewAnalyticsService(openDota, heroes, benchmarks, cache, textGen)
	insightService := services.NewInsightService(benchmarks, textGen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollHeroes(ctx, heroes, 6*time.Hour)

	handlers.SetupAnalyticsRoutes(app, analyticsService)
	handlers.SetupInsightRoutes(app, insightService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Hero directory polling running (every 6h)")
	log.Println("✅ Cache eviction sweep running (every 10m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)
	if textGen.Configured() {
		log.Println("✅ Text generation fallback chain configured")
	} else {
		log.Println("⚠️  No text generation provider configured — generative insights disabled")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// buildTextGenChain assembles the provider fallback order from the
// environment: Anthropic first, OpenAI-compatible second. Either may be
// absent; an empty chain reports not-configured at request time.
func buildTextGenChain() *textgen.Chain {
	var providers []textgen.Provider

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		providers = append(providers, textgen.NewAnthropicProvider(key, model))
	}

	if baseURL := os.Getenv("OPENAI_COMPAT_BASE_URL"); baseURL != "" {
		model := os.Getenv("OPENAI_COMPAT_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		providers = append(providers, textgen.NewOpenAIProvider(baseURL, os.Getenv("OPENAI_COMPAT_API_KEY"), model))
	}

	timeout := 20 * time.Second
	if raw := os.Getenv("TEXTGEN_TIMEOUT_SECONDS"); raw != "" {
		if d, err := time.ParseDuration(raw + "s"); err == nil && d > 0 {
			timeout = d
		}
	}

	return textgen.NewChain(timeout, providers...)
}

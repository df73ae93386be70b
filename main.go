package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/restaurant-inventory/modules/alerts"
	"github.com/example/restaurant-inventory/modules/api"
	"github.com/example/restaurant-inventory/modules/broadcast"
	"github.com/example/restaurant-inventory/modules/cache"
	"github.com/example/restaurant-inventory/modules/catalog"
	"github.com/example/restaurant-inventory/modules/inventory"
	"github.com/example/restaurant-inventory/modules/orders"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	dbPath := getEnv("DB_PATH", "./restaurant.db")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)

	log.Println("=== Restaurant Inventory & Orders ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("Redis: %s", redisAddr)

	// Open the shared database. Modules receive the handle and own their
	// tables; nothing reaches the DB through package-level state.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Redis is optional. Without it the catalog runs uncached.
	catalogCache := newCatalogCache(redisAddr, cacheTTL)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	catalogModule := catalog.NewModule(db, catalogCache)
	alertsModule := alerts.NewModule()
	inventoryModule := inventory.NewModule(db)
	ordersModule := orders.NewModule(db)
	broadcastModule := broadcast.NewModule()
	apiModule := api.NewModule()

	// Inject broadcast hub into API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - catalog: products and customization rules
	// - alerts: low-stock alert engine (depends on catalog)
	// - inventory: stock ledger + availability resolver (depends on alerts)
	// - orders: order lifecycle (depends on catalog, inventory)
	// - broadcast: WebSocket hub + event consumer
	// - api: Fiber HTTP/WebSocket server
	app.Register(catalogModule)
	app.Register(alertsModule)
	app.Register(inventoryModule)
	app.Register(ordersModule)
	app.Register(broadcastModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

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

// newCatalogCache connects to Redis if it is reachable and falls back to
// a no-op cache otherwise.
func newCatalogCache(redisAddr string, ttl time.Duration) cache.CacheService {
	client := redis.NewClient(&redis.Options{Addr: redisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, catalog cache disabled: %v", redisAddr, err)
		_ = client.Close()
		return cache.Noop{}
	}

	log.Printf("Connected to Redis at %s (TTL %s)", redisAddr, ttl)
	return cache.New(client, "catalog:", ttl)
}

func printStartupInfo() {
	port := getEnv("PORT", "3000")

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Architecture:")
	log.Println("  - HTTP Framework: Fiber with WebSocket support")
	log.Println("  - Event Bus: NATS JetStream (internal pubsub)")
	log.Println("  - Storage: GORM + SQLite, Redis cache for catalog reads")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                                    - Health check")
	log.Println("  GET    /api/v1/restaurants/:id/menu               - Menu with live availability")
	log.Println("  GET    /api/v1/inventory/:productId/availability  - Availability verdict")
	log.Println("  POST   /api/v1/inventory/:productId/decrement     - Consume stock")
	log.Println("  PUT    /api/v1/inventory/:productId/quantity      - Set stock (admin)")
	log.Println("  PUT    /api/v1/inventory/:productId/enabled       - Toggle availability (admin)")
	log.Println("  PUT    /api/v1/inventory/:productId/threshold     - Set low-stock threshold (admin)")
	log.Println("  GET    /api/v1/alerts                             - List active alerts")
	log.Println("  POST   /api/v1/alerts/:id/acknowledge             - Acknowledge an alert")
	log.Println("  POST   /api/v1/orders                             - Create order")
	log.Println("  GET    /api/v1/orders                             - List orders")
	log.Println("  GET    /api/v1/orders/:id                         - Get order")
	log.Println("  PUT    /api/v1/orders/:id/status                  - Update order status")
	log.Println("  POST   /api/v1/orders/:id/cancel                  - Cancel order")
	log.Println("  POST   /api/v1/orders/:id/pay                     - Record payment")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Connect with: ws://localhost:3000/ws?restaurant_id=rest-italiano")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

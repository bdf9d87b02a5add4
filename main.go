package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sanchit081/NeuroBit/internal/config"
	"github.com/Sanchit081/NeuroBit/internal/database"
	"github.com/Sanchit081/NeuroBit/internal/feedbackstore"
	"github.com/Sanchit081/NeuroBit/internal/handlers"
	"github.com/Sanchit081/NeuroBit/internal/middleware"
	"github.com/Sanchit081/NeuroBit/internal/notify"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	if cfg.AdminToken == "" {
		log.Println("⚠️ ADMIN_TOKEN not set; admin routes will reject every request")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureSubscriberIndexes(db); err != nil {
		log.Printf("⚠️ subscriber index warning: %v", err)
	}

	feedback := feedbackstore.NewMemoryStore()
	notion := notify.NewNotionClient(cfg)
	mailer := notify.NewMailer(cfg)

	r := buildRouter(cfg, db, feedback, notion, mailer)

	serve(r, cfg.Port, cfg.MaxPort)
}

func buildRouter(
	cfg config.Config,
	db *mongo.Database,
	feedback feedbackstore.Store,
	notion *notify.NotionClient,
	mailer *notify.Mailer,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	api := r.Group("/api")
	api.Use(rateLimiter())

	adminGate := middleware.AdminAuth(cfg.AdminToken)

	api.GET("/health", handlers.Health(db))

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/stats/overview", handlers.GetProductStats(db))
	api.GET("/products/:slug", handlers.GetProductBySlug(db))
	api.POST("/products", adminGate, handlers.CreateProduct(db))
	api.PUT("/products/:slug", adminGate, handlers.UpdateProduct(db))
	api.DELETE("/products/:slug", adminGate, handlers.DeleteProduct(db))
	api.POST("/products/:slug/sales", adminGate, handlers.RecordProductSale(db))

	api.POST("/subscribe", handlers.Subscribe(db, notion, mailer))
	api.GET("/subscribe/verify/:email", handlers.VerifySubscription(db))
	api.DELETE("/subscribe/:email", handlers.Unsubscribe(db))

	admin := api.Group("/admin")
	admin.Use(adminGate)
	{
		admin.GET("/dashboard", handlers.AdminDashboard(db))
		admin.GET("/stats", handlers.AdminStats(db))
		admin.GET("/products", handlers.GetAllProducts(db))
		admin.GET("/subscribers", handlers.GetSubscribers(db))
		admin.GET("/subscribers/export", handlers.ExportSubscribers(db))
		admin.PUT("/subscribers/:id", handlers.UpdateSubscriber(db))
		admin.DELETE("/subscribers/:id", handlers.DeactivateSubscriber(db))
		admin.DELETE("/subscribers/:id/purge", handlers.PurgeSubscriber(db))
	}

	api.POST("/feedback", handlers.SubmitFeedback(feedback))
	api.GET("/feedback/testimonials", handlers.GetTestimonials(feedback))
	api.GET("/feedback/stats", adminGate, handlers.FeedbackStats(feedback))
	api.GET("/feedback/all", adminGate, handlers.GetAllFeedback(feedback))
	api.PUT("/feedback/:id/status", adminGate, handlers.UpdateFeedbackStatus(feedback))

	return r
}

// rateLimiter throttles by client address: 100 requests per 15 minutes,
// matching the only backpressure mechanism the API offers.
func rateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 15 * time.Minute,
		Limit:  100,
	}
	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": "Too many requests from this IP, please try again later.",
		})
	}))
}

// serve binds to the first free port in [port, maxPort], giving up beyond it.
func serve(r *gin.Engine, port, maxPort int) {
	for p := port; p <= maxPort; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err != nil {
			log.Printf("⚠️ Port %d in use. Trying %d...", p, p+1)
			continue
		}

		log.Printf("🚀 NeuroBit Backend running on port %d", p)
		log.Printf("📊 Health check: http://localhost:%d/api/health", p)
		log.Fatal(http.Serve(ln, r))
	}

	log.Fatalf("❌ No available ports found between %d and %d.", port, maxPort)
}

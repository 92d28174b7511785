package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	paymentControllers "github.com/EyobAbdella/EasyShop/controllers/payment"
	"github.com/EyobAbdella/EasyShop/metrics"
	"github.com/EyobAbdella/EasyShop/models"
	"github.com/EyobAbdella/EasyShop/routes"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Payment provider credentials (injected, not global)
	paymentCfg, err := paymentControllers.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Payment config failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup routes
	routes.SetupRoutes(r, db, paymentCfg)

	// Remove abandoned carts daily at 3 AM; default retention 30 days
	retentionDays := 30
	if v, err := strconv.Atoi(os.Getenv("CART_TTL_DAYS")); err == nil && v > 0 {
		retentionDays = v
	}
	go startDailyCartCleanup(db, time.Duration(retentionDays)*24*time.Hour, 3, 0)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startDailyCartCleanup deletes abandoned carts at a fixed hour each day.
// Checkout already deletes its cart, so anything older than the retention
// window was abandoned.
func startDailyCartCleanup(db *gorm.DB, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		log.Printf("⏳ Next cart cleanup scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(next.Sub(now))

		cutoff := time.Now().Add(-retention)
		err := db.Transaction(func(tx *gorm.DB) error {
			var stale []models.Cart
			if err := tx.Where("created_at < ?", cutoff).Find(&stale).Error; err != nil {
				return err
			}
			for _, cart := range stale {
				if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.Cart{}, "id = ?", cart.ID).Error; err != nil {
					return err
				}
			}
			log.Printf("🗑️ Removed %d abandoned cart(s)", len(stale))
			return nil
		})
		if err != nil {
			log.Printf("❌ Cart cleanup failed: %v", err)
		}
	}
}

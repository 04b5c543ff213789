package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/cache"
	"github.com/technocomputers/storefront-api/config"
	"github.com/technocomputers/storefront-api/mailer"
	"github.com/technocomputers/storefront-api/middleware"
	"github.com/technocomputers/storefront-api/models"
	"github.com/technocomputers/storefront-api/routes"
	"github.com/technocomputers/storefront-api/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Counter{},
		&models.Contact{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	var store *cache.Cache
	if cfg.RedisAddr != "" {
		store, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, log)
		if err != nil {
			log.Warn("redis unavailable, product cache disabled", zap.Error(err))
			store = nil
		}
	}

	var mail service.Mailer
	if cfg.EmailHost != "" {
		mail = mailer.New(mailer.Config{
			Host:      cfg.EmailHost,
			Port:      cfg.EmailPort,
			Username:  cfg.EmailUser,
			Password:  cfg.EmailPass,
			FromName:  cfg.FromName,
			FromEmail: cfg.FromEmail,
		}, log)
	} else {
		log.Warn("EMAIL_HOST not set, outgoing mail disabled")
	}

	deps := routes.Deps{
		Config:  cfg,
		Catalog: service.NewCatalogService(db, log),
		Cart:    service.NewCartService(db, log),
		Orders:  service.NewOrderService(db, log, mail),
		Users:   service.NewUserService(db, log, mail),
		Contact: service.NewContactService(db, log, mail),
		Cache:   store,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	routes.Setup(r, deps)

	go backupUploads(cfg.UploadDir, log)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

// backupUploads copies the uploads directory into a sibling backup folder
// once a day.
func backupUploads(uploadDir string, log *zap.Logger) {
	for {
		backupDir := filepath.Join(filepath.Dir(uploadDir), "uploads-backup", time.Now().Format("2006-01-02"))
		if err := copyDir(uploadDir, backupDir); err != nil {
			log.Warn("uploads backup failed", zap.Error(err))
		} else {
			log.Info("uploads backed up", zap.String("dir", backupDir))
		}
		time.Sleep(24 * time.Hour)
	}
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

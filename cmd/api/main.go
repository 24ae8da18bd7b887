package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/driving_tutor/configs"
	"github.com/anjiri1684/driving_tutor/database"
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/jobs"
	"github.com/anjiri1684/driving_tutor/logger"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/anjiri1684/driving_tutor/routes"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/anjiri1684/driving_tutor/storage"
	"github.com/anjiri1684/driving_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, zlog); err != nil {
		return err
	}
	if err := database.SeedAdmin(ctx, database.NewUserRepo(db), cfg.Admin, zlog); err != nil {
		return err
	}

	var feed services.Feed
	if cfg.RedisURL != "" {
		rdb, err := websocket.NewRedisClient(cfg.RedisURL, zlog)
		if err != nil {
			return err
		}
		defer rdb.Close()
		feed = websocket.NewRedisFeed(rdb, zlog)
		zlog.Info("chat feed: redis pub/sub")
	} else {
		hub := websocket.NewHub(zlog)
		go hub.Run(ctx)
		feed = hub
		zlog.Info("chat feed: in-process hub")
	}

	stores := database.Stores(db)
	opts := services.Options{
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Admins:    services.NewAdminPolicy(append(cfg.Admin.Emails, cfg.Admin.SeedEmail)),
		Feed:      feed,
	}
	var signer handlers.UploadSigner
	scheduler := cron.New()
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			return err
		}
		opts.Objects = cld
		signer = cld

		sweeper := jobs.NewOrphanSweeper(database.NewOrphanRepo(db), cld, cfg.OrphanGracePeriod, zlog)
		if _, err := sweeper.Schedule(scheduler, cfg.OrphanSweepSchedule); err != nil {
			return err
		}
		zlog.Info("orphan sweep scheduled", zap.String("schedule", cfg.OrphanSweepSchedule))
	} else {
		zlog.Warn("CLOUDINARY_URL not set, file uploads are disabled")
	}
	scheduler.Start()
	defer scheduler.Stop()

	svc := services.New(stores, opts, zlog)
	h := handlers.New(svc, signer, zlog)

	app := fiber.New(fiber.Config{
		AppName:       "Driving Tutor",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			message := err.Error()
			if code == fiber.StatusInternalServerError {
				zlog.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()), zap.String("method", c.Method()))
				message = "Something went wrong, please try again"
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": message,
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(middleware.RequestLogger(zlog))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Driving Tutor API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	routes.Setup(app, h, cfg.JWTSecret)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.Int("port", cfg.Port))
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// File: reminderx/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reminderx/config"
	"reminderx/cron"
	"reminderx/database"
	contactRepo "reminderx/database/repository/contact"
	deviceRepo "reminderx/database/repository/device"
	inventoryRepo "reminderx/database/repository/inventory"
	recordsRepo "reminderx/database/repository/records"
	reminderRepo "reminderx/database/repository/reminder"
	userRepoPkg "reminderx/database/repository/user"
	"reminderx/handlers"
	"reminderx/middleware"
	"reminderx/routes"
	"reminderx/services/contact"
	"reminderx/services/escalation"
	"reminderx/services/inventory"
	"reminderx/services/monitor"
	"reminderx/services/notification"
	"reminderx/services/reminder"
	"reminderx/services/sms"
	"reminderx/services/user"
	"reminderx/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// tokenCacheTTL bounds how long a replaced push token may still be used.
const tokenCacheTTL = 10 * time.Minute

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	bgCtx, stopBackground := context.WithCancel(context.Background())
	utils.StartHealthMonitor(bgCtx, []*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// repositories.
	reminders := reminderRepo.NewMongoReminderRepo()
	inventoryItems := inventoryRepo.NewMongoInventoryRepo()
	contacts := contactRepo.NewMongoContactRepo()
	devices := deviceRepo.NewMongoDeviceRepo()
	records := recordsRepo.NewMongoRecordRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// transports.
	dispatcher := notification.NewDispatcher(utils.FCMClient, userRepo, tokenCacheTTL, logger)
	smsSender := sms.NewHTTPSender(cfg.SMSURL, cfg.SMSAPIKey, cfg.SMSRatePerSec)
	if cfg.SMSURL == "" {
		logger.Warn("SMS_URL not set; escalations will not reach emergency contacts")
	}

	// retry chain.
	queue := cron.NewQueueClient()
	defer queue.Close()

	machine, err := escalation.NewMachine(escalation.Deps{
		Queue:     queue,
		Reminders: reminders,
		Users:     userRepo,
		Contacts:  contacts,
		Records:   records,
		Notifier:  dispatcher,
		Sender:    smsSender,
	}, cfg.RetryDelays, logger)
	if err != nil {
		logger.Fatal("main: failed to build escalation machine", zap.Error(err))
	}
	worker := cron.StartDoseWorker(machine, logger)

	// monitors.
	reminderChecker := monitor.NewReminderChecker(reminders, dispatcher, machine, logger)
	inventoryMonitor := inventory.NewMonitor(inventoryItems, dispatcher, cfg.LowStockThreshold, cfg.ExpiryWarningDays, logger)

	scheduler := cron.NewScheduler(utils.NewRedisLocker(utils.GetCacheClient()), logger)
	jobs := []struct {
		name    string
		spec    string
		lockTTL time.Duration
		fn      cron.JobFunc
	}{
		{"reminders", cfg.ReminderCheckSpec, 50 * time.Second, func(ctx context.Context, now time.Time) error {
			_, err := reminderChecker.Check(ctx, now)
			return err
		}},
		{"inventory", cfg.InventoryCheckSpec, 8 * time.Second, func(ctx context.Context, now time.Time) error {
			_, err := inventoryMonitor.Check(ctx, now)
			return err
		}},
		{"daily-reset", cfg.DailyResetSpec, time.Hour, func(ctx context.Context, _ time.Time) error {
			return errors.Join(reminderChecker.ResetDaily(ctx), inventoryMonitor.ResetDaily(ctx))
		}},
	}
	for _, j := range jobs {
		if err := scheduler.Add(j.name, j.spec, j.lockTTL, j.fn); err != nil {
			logger.Fatal("main: invalid job schedule", zap.Error(err))
		}
	}
	scheduler.Start()

	// services.
	userService := &user.DefaultUserService{
		Repo:    userRepo,
		Devices: devices,
		Tokens:  dispatcher,
	}
	reminderService := reminder.NewService(reminders, records, devices, logger)
	reminderService.SetChainWindow(machine.Window())
	inventoryService := inventory.NewService(inventoryItems, devices)
	contactService := contact.NewService(contacts)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Auth:             middleware.FirebaseAuthMiddleware(utils.AuthClient, userRepo, utils.GetAuthCacheClient(), false),
		RegistrationAuth: middleware.FirebaseAuthMiddleware(utils.AuthClient, userRepo, utils.GetAuthCacheClient(), true),
		Reminder:         handlers.NewReminderHandler(reminderService),
		Inventory:        handlers.NewInventoryHandler(inventoryService),
		Contact:          handlers.NewContactHandler(contactService),
		User:             handlers.NewUserHandler(userService),
		Records:          handlers.NewRecordsHandler(records),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	scheduler.Stop()
	worker.Shutdown()
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	database.Disconnect()

	logger.Sugar().Info("main: server stopped gracefully")
}

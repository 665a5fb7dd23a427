package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"

	"event-scheduler/config"
	"event-scheduler/handlers"
	"event-scheduler/mailer"
	"event-scheduler/models"
	"event-scheduler/monitoring"
	"event-scheduler/security"
	"event-scheduler/services"
	"event-scheduler/store"
	"event-scheduler/utils"

	_ "event-scheduler/migrations"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pbmailer "github.com/pocketbase/pocketbase/tools/mailer"
	"github.com/redis/go-redis/v9"
)

func Start() error {
	app := pocketbase.New()

	cfg := config.LoadConfig()

	// Redis is optional: the limiter fails open and the mirror is skipped.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Redis unavailable, continuing without it: %v", err)
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	mailQueue := mailer.NewQueue(
		&appSender{app: app},
		slog.Default(),
		cfg.MailSendInterval,
		cfg.MailQueueSize,
	)

	eventStore := store.NewEventStore(app)
	responseStore := store.NewResponseStore(app)

	responseService := services.NewResponseService(app, eventStore, cfg)
	eventService := services.NewEventService(app, eventStore, responseStore, mailQueue)

	limiter := security.NewRateLimiter(redisClient, cfg.ResponseRateLimit, cfg.ResponseRateWindow)

	responseHandler := handlers.NewResponseHandler(app, responseService, limiter)
	eventHandler := handlers.NewEventHandler(app, eventService)

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Context shared by the background workers, cancelled on terminate.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		cancel()
		return e.Next()
	})

	setupEventHooks(app, redisClient)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		go mailQueue.Start(ctx)

		if cfg.EnableMetrics {
			monitor := monitoring.NewMonitor(app, redisClient)
			go monitor.Collect(ctx)
			go func() {
				if err := monitoring.Serve(cfg.MetricsPort, redisClient); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("Metrics server stopped: %v", err)
				}
			}()
		}

		// Event endpoints
		e.Router.GET("/api/v1/events/{shareToken}", eventHandler.GetEvent)
		e.Router.GET("/api/v1/events/{shareToken}/responses", eventHandler.ListResponses)
		e.Router.PATCH("/api/v1/events/{shareToken}/status", eventHandler.SetStatus)
		e.Router.POST("/api/v1/events/{shareToken}/finalize", eventHandler.Finalize)
		e.Router.DELETE("/api/v1/events/{shareToken}/options", eventHandler.RemoveOption)

		// Response endpoints
		e.Router.POST("/api/v1/events/{shareToken}/responses", responseHandler.SubmitResponse)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if redisClient != nil {
				if err := utils.RedisHealthCheck(redisClient); err != nil {
					return e.JSON(http.StatusServiceUnavailable, map[string]string{
						"status": "unhealthy",
						"error":  err.Error(),
					})
				}
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	return app.Start()
}

// setupEventHooks assigns creation defaults and keeps the Redis open-events
// mirror in step with event status.
func setupEventHooks(app *pocketbase.PocketBase, redisClient *redis.Client) {
	app.OnRecordCreate("events").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetString("uuid") == "" {
			e.Record.Set("uuid", utils.NewShareToken())
		}
		if e.Record.GetString("status") == "" {
			e.Record.Set("status", models.StatusOpen)
		}
		return e.Next()
	})

	if redisClient == nil {
		return
	}

	syncMirror := func(e *core.RecordEvent) error {
		ctx := context.Background()
		var err error
		if e.Record.GetString("status") == models.StatusOpen {
			err = redisClient.SAdd(ctx, "open_events", e.Record.Id).Err()
		} else {
			err = redisClient.SRem(ctx, "open_events", e.Record.Id).Err()
		}
		if err != nil {
			// The mirror is advisory; never fail the request over it.
			app.Logger().Warn("open-events mirror sync failed",
				"event", e.Record.Id,
				"error", err,
			)
		}
		return e.Next()
	}

	app.OnRecordAfterCreateSuccess("events").BindFunc(syncMirror)
	app.OnRecordAfterUpdateSuccess("events").BindFunc(syncMirror)
	app.OnRecordAfterDeleteSuccess("events").BindFunc(func(e *core.RecordEvent) error {
		if err := redisClient.SRem(context.Background(), "open_events", e.Record.Id).Err(); err != nil {
			app.Logger().Warn("open-events mirror sync failed",
				"event", e.Record.Id,
				"error", err,
			)
		}
		return e.Next()
	})
}

// appSender delivers through the platform mail client, constructed per send
// so settings changes take effect without a restart.
type appSender struct {
	app core.App
}

func (s *appSender) Send(message *pbmailer.Message) error {
	return s.app.NewMailClient().Send(message)
}

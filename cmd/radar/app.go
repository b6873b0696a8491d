package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/techradar-io/radar-api/internal/api"
	"github.com/techradar-io/radar-api/internal/auth"
	"github.com/techradar-io/radar-api/internal/config"
	"github.com/techradar-io/radar-api/internal/events"
	"github.com/techradar-io/radar-api/internal/platform/metrics"
	"github.com/techradar-io/radar-api/internal/platform/postgres"
	"github.com/techradar-io/radar-api/internal/service"
	"github.com/techradar-io/radar-api/internal/store"
	"github.com/techradar-io/radar-api/internal/task"
)

// application holds the shared dependencies of every command so they can be
// released together.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	userStore  store.UserStore
	topicStore store.TopicStore
	radarStore store.RadarStore
	blipStore  store.BlipStore
	taskStore  task.TaskStore

	validator    auth.TokenValidator
	userService  service.UserService
	topicService service.TopicService
	radarService service.RadarService
	blipService  service.BlipService
	provisioner  *service.Provisioner

	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication wires stores, services and the provisioning pipeline over db.
// Nothing is started; the serve command starts the task runner.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.validator, err = auth.NewTokenValidator(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token validator: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.topicStore = postgres.NewPostgresTopicStore(db, logger)
	app.radarStore = postgres.NewPostgresRadarStore(db, logger)
	app.blipStore = postgres.NewPostgresBlipStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.provisioner = service.NewProvisioner(db, app.radarStore, app.topicStore, app.blipStore, logger)

	app.topicService, err = service.NewTopicService(app.topicStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic service: %w", err)
	}
	app.radarService, err = service.NewRadarService(db, app.radarStore, app.blipStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create radar service: %w", err)
	}
	app.blipService, err = service.NewBlipService(app.blipStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create blip service: %w", err)
	}

	app.taskRunner = app.setupTaskRunner()

	// The user service needs the emitter and the task factory needs the user
	// service, so the handler is registered after both exist.
	var emitter *events.InMemoryEventEmitter
	if !cfg.Provisioning.Disabled {
		emitter = events.NewInMemoryEventEmitter(logger)
		app.eventEmitter = emitter
	}

	app.userService, err = service.NewUserService(db, app.userStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	factory := task.NewProvisioningTaskFactory(app.userService, app.provisioner, logger)
	app.taskRunner.RegisterRehydrator(task.TaskTypeRadarProvisioning, factory.Rehydrate)
	if emitter != nil {
		emitter.RegisterHandler(task.NewTaskFactoryEventHandler(factory, app.taskRunner, logger))
	} else {
		logger.Info("radar provisioning on user creation is disabled")
	}

	return app, nil
}

func (app *application) setupTaskRunner() *task.TaskRunner {
	cfg := task.DefaultTaskRunnerConfig()
	cfg.WorkerCount = app.config.Task.WorkerCount
	cfg.QueueSize = app.config.Task.QueueSize
	cfg.StuckTaskAge = time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute

	runner := task.NewTaskRunner(app.taskStore, cfg, app.logger)
	runner.SetObserver(app.metrics)
	return runner
}

func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Users:       app.userService,
		Radars:      app.radarService,
		Blips:       app.blipService,
		Topics:      app.topicService,
		Validator:   app.validator,
		Metrics:     app.metrics,
		HealthCheck: app.db.PingContext,
		Logger:      app.logger,
	})
}

// cleanup releases resources. The task runner must already be stopped.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}

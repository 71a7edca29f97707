package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/analytics"
	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/autoapply"
	"jobassist-backend/internal/customize"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/notify"
	"jobassist-backend/internal/preferences"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/scheduler"
	"jobassist-backend/internal/services/health"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/server"
	"jobassist-backend/internal/shared/storage/db"
	"jobassist-backend/internal/shared/storage/object"
	localstore "jobassist-backend/internal/shared/storage/object/local"
	s3store "jobassist-backend/internal/shared/storage/object/s3"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skillgaps"
	"jobassist-backend/internal/skillgaps/gap"
	"jobassist-backend/internal/skills"
	"jobassist-backend/internal/users"
)

// App holds shared dependencies for every process.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Store      object.Store
	Queue      queue.Client
	Vocabulary *skills.Vocabulary
	Notifier   notify.Notifier

	UsersRepo         users.Repo
	ResumesRepo       resumes.Repo
	JobsRepo          jobs.Repo
	ApplicationsRepo  applications.Repo
	SkillGapsRepo     skillgaps.Repo
	PreferencesRepo   preferences.Repo
	NotificationsRepo notifications.Repo

	UsersService         *users.Service
	ResumesService       *resumes.Service
	JobsService          *jobs.Service
	ApplicationsService  *applications.Service
	SkillGapsService     *skillgaps.Service
	PreferencesService   *preferences.Service
	NotificationsService *notifications.Service
	AnalyticsService     *analytics.Service
	AutoApply            *autoapply.Engine
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	vocab, err := buildVocabulary(cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Store:      store,
		Queue:      queueClient,
		Vocabulary: vocab,
		Notifier:   notifier,
	}
	buildServices(app)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	deps := server.RouterDeps{
		Config:              app.Config,
		Health:              health.NewService(pinger),
		UserHandler:         users.NewHandler(app.UsersService),
		ResumeHandler:       resumes.NewHandler(app.ResumesService),
		JobHandler:          jobs.NewHandler(app.JobsService),
		ApplicationHandler:  applications.NewHandler(app.ApplicationsService),
		SkillGapHandler:     skillgaps.NewHandler(app.SkillGapsService),
		PreferenceHandler:   preferences.NewHandler(app.PreferencesService),
		NotificationHandler: notifications.NewHandler(app.NotificationsService),
		AnalyticsHandler:    analytics.NewHandler(app.AnalyticsService),
		AutoApplyHandler:    autoapply.NewHandler(app.AutoApply, app.Queue),
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Sweep returns a scheduled auto-apply sweep over every enabled user. When
// enqueue is true and a queue is configured, users are handed to workers.
func (a *App) Sweep(enqueue bool) *scheduler.Sweep {
	s := &scheduler.Sweep{
		Users:       a.PreferencesRepo,
		Runner:      a.AutoApply,
		Concurrency: a.Config.WorkerConcurrency,
	}
	if enqueue {
		s.Queue = a.Queue
	}
	return s
}

// Close releases the database pool and queue connection.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.Queue.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	profile := db.RuntimeProfile()
	opts := db.OptionsFor(profile)
	connect := db.Connect
	if profile == db.ProfileLambda {
		connect = db.GetSingleton
	}
	sqlDB, err := connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildQueue returns an untyped nil Client when no driver is configured so
// callers can compare against nil.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueDriver {
	case "sqs":
		if strings.TrimSpace(cfg.SQSQueueURL) == "" {
			return nil, fmt.Errorf("QUEUE_DRIVER=sqs requires SQS_QUEUE_URL")
		}
		c, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
		if err != nil {
			return nil, err
		}
		c.VisibilityTimeout = cfg.SQSVisibility
		c.DrainTimeout = cfg.WorkerDrain
		return c, nil
	case "amqp":
		c, err := queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, nil
	}
}

func buildVocabulary(cfg config.Config) (*skills.Vocabulary, error) {
	if strings.TrimSpace(cfg.VocabularyFile) == "" {
		return skills.DefaultVocabulary(), nil
	}
	vocab, err := skills.LoadVocabularyFile(cfg.VocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	telemetry.Info("bootstrap.vocabulary.loaded", map[string]any{
		"version": vocab.Version(),
		"skills":  vocab.Len(),
	})
	return vocab, nil
}

func buildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	var sender notify.Sender = notify.LogSender{}
	if cfg.Mail.Enabled() {
		gmail, err := notify.NewGmailSender(ctx, cfg.Mail.GmailCredentialsFile, cfg.Mail.GmailTokenFile)
		if err != nil {
			if !isDevLike(cfg.Env) {
				return nil, err
			}
			telemetry.Warn("bootstrap.mail.log_only", map[string]any{"error": err.Error()})
		} else {
			sender = gmail
		}
	}
	return notify.NewMailer(sender, cfg.Mail.From, cfg.Mail.RatePerMinute), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.SkillGapsRepo = &skillgaps.PGRepo{DB: app.DB}
		app.PreferencesRepo = &preferences.PGRepo{DB: app.DB}
		app.NotificationsRepo = &notifications.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.SkillGapsRepo = skillgaps.NewMemoryRepo()
		app.PreferencesRepo = preferences.NewMemoryRepo()
		app.NotificationsRepo = notifications.NewMemoryRepo()
	}

	customizer := customize.New(app.Vocabulary)
	analyzer := gap.NewAnalyzer(gap.DefaultTable())

	app.NotificationsService = notifications.NewService(app.NotificationsRepo)
	app.UsersService = users.NewService(app.UsersRepo, app.Notifier)
	app.PreferencesService = preferences.NewService(app.PreferencesRepo)
	app.JobsService = jobs.NewService(app.JobsRepo, app.Vocabulary)
	app.ResumesService = &resumes.Service{
		Repo:       app.ResumesRepo,
		Store:      app.Store,
		Parser:     skills.NewParser(app.Vocabulary),
		Customizer: customizer,
		Jobs:       app.JobsService,
		Alerts:     app.NotificationsService,
	}
	app.ApplicationsService = &applications.Service{
		Repo:    app.ApplicationsRepo,
		Resumes: app.ResumesService,
		Jobs:    app.JobsService,
		Alerts:  app.NotificationsService,
	}
	app.SkillGapsService = &skillgaps.Service{
		Repo:     app.SkillGapsRepo,
		Resumes:  app.ResumesService,
		Jobs:     app.JobsService,
		Analyzer: analyzer,
		Prefs:    app.PreferencesService,
		Users:    app.UsersService,
		Notifier: app.Notifier,
	}
	app.AnalyticsService = &analytics.Service{
		Applications: app.ApplicationsRepo,
		Jobs:         app.JobsRepo,
		Resumes:      app.ResumesService,
		Gaps:         app.SkillGapsRepo,
	}
	app.AutoApply = &autoapply.Engine{
		Store: autoapply.RepoStorage{
			Resumes:      app.ResumesRepo,
			Preferences:  app.PreferencesRepo,
			Jobs:         app.JobsRepo,
			Applications: app.ApplicationsRepo,
			SkillGaps:    app.SkillGapsRepo,
		},
		Users:      app.UsersService,
		Notifier:   app.Notifier,
		Alerts:     app.NotificationsService,
		Customizer: customizer,
		Analyzer:   analyzer,
	}
}

package cmd

import (
	"context"
	"fmt"
	"net/http"

	"ddd-skeleton/api"
	"ddd-skeleton/api/health"
	apiproject "ddd-skeleton/api/project"
	appauth "ddd-skeleton/application/auth"
	projectapp "ddd-skeleton/application/project"
	"ddd-skeleton/config"
	domainnotification "ddd-skeleton/domain/notification"
	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/auth"
	"ddd-skeleton/infrastructure/notification"
	"ddd-skeleton/infrastructure/persistence/memory"
	"ddd-skeleton/infrastructure/persistence/mysql"
	"ddd-skeleton/infrastructure/persistence/postgres"
	"ddd-skeleton/infrastructure/persistence/retry"
	"ddd-skeleton/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Intents 组合根装配好的全部用例，HTTP 和命令行共用同一组实例
type Intents struct {
	CreateProject     *projectapp.CreateProject
	GetProject        *projectapp.GetProject
	AddOwner          *projectapp.AddOwner
	AllocateBudget    *projectapp.AllocateBudget
	ListOwnerProjects *projectapp.ListOwnerProjects
}

// AppBuilder builds an App from configuration
// 存储、通知和认证都可以在 Build 之前替换，未替换时按配置创建
type AppBuilder struct {
	cfg           *config.Config
	repo          project.Repository
	uow           shared.UnitOfWork
	notifier      domainnotification.Notifier
	authenticator appauth.Authenticator
	skipLogger    bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithRepository replaces the configured storage adapter
// 传入的是未包装的适配器，不变量仍由 Build 统一加上
func (b *AppBuilder) WithRepository(repo project.Repository) *AppBuilder {
	b.repo = repo
	return b
}

// WithUnitOfWork replaces the transaction boundary used by CreateProject
// 只替换仓储而不替换工作单元时，使用进程内串行化的内存实现
func (b *AppBuilder) WithUnitOfWork(uow shared.UnitOfWork) *AppBuilder {
	b.uow = uow
	return b
}

// WithNotifier replaces the configured notification driver
func (b *AppBuilder) WithNotifier(n domainnotification.Notifier) *AppBuilder {
	b.notifier = n
	return b
}

// WithAuthenticator replaces the configured static tokens
func (b *AppBuilder) WithAuthenticator(a appauth.Authenticator) *AppBuilder {
	b.authenticator = a
	return b
}

// WithoutLoggerInit keeps whatever global logger is already installed
func (b *AppBuilder) WithoutLoggerInit() *AppBuilder {
	b.skipLogger = true
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if !b.skipLogger {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	app := &App{config: b.cfg}

	adapter, uow := b.repo, b.uow
	checks := map[string]health.CheckFunc{}
	if adapter == nil {
		configured, configuredUoW, err := b.initRepository(ctx, app, checks)
		if err != nil {
			app.Close()
			return nil, err
		}
		adapter = configured
		if uow == nil {
			uow = configuredUoW
		}
	}
	if uow == nil {
		uow = memory.NewUnitOfWork()
	}

	repo := project.NewSpecifiedRepository(adapter,
		project.OwnersRequired(),
		project.BudgetCurrency(b.cfg.Ledger.Currency),
	)

	notifier := b.notifier
	if notifier == nil {
		notifier = b.newNotifier()
	}

	authenticator := b.authenticator
	if authenticator == nil {
		authenticator = auth.NewStaticTokenAuthenticator(b.cfg.Auth.Tokens)
	}

	money := b.newMoneyFactory()

	app.intents = &Intents{
		CreateProject:     projectapp.NewCreateProject(repo, money, notifier, uow),
		GetProject:        projectapp.NewGetProject(repo),
		AddOwner:          projectapp.NewAddOwner(repo, notifier, authenticator),
		AllocateBudget:    projectapp.NewAllocateBudget(repo, money, authenticator),
		ListOwnerProjects: projectapp.NewListOwnerProjects(repo),
	}

	projectController := apiproject.NewController(
		app.intents.CreateProject,
		app.intents.GetProject,
		app.intents.AddOwner,
		app.intents.AllocateBudget,
		app.intents.ListOwnerProjects,
	)

	router := api.NewRouter(b.cfg, health.NewController(b.cfg, checks), projectController)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return app, nil
}

// initRepository 返回存储适配器和与之配套的工作单元
func (b *AppBuilder) initRepository(ctx context.Context, app *App, checks map[string]health.CheckFunc) (project.Repository, shared.UnitOfWork, error) {
	retryConfig := retry.FromAppConfig(b.cfg)

	switch b.cfg.Database.Type {
	case "mysql":
		logger.Info("Using MySQL/GORM persistence layer")
		db, err := mysql.NewConfig(b.cfg.Database.MySQL).Connect()
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, closeGorm(db))

		if err := mysql.Ping(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("failed to ping MySQL: %w", err)
		}
		if b.cfg.Database.MySQL.AutoMigrate {
			if err := mysql.AutoMigrate(db); err != nil {
				return nil, nil, err
			}
		}
		checks["database"] = func(ctx context.Context) error { return mysql.Ping(ctx, db) }
		return mysql.NewProjectRepository(db, retryConfig), mysql.NewUnitOfWork(db, retryConfig), nil

	case "postgres":
		logger.Info("Using PostgreSQL/pgx persistence layer")
		pg, err := postgres.New(ctx, b.cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, func() error { pg.Close(); return nil })

		if b.cfg.Database.Postgres.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				return nil, nil, err
			}
		}
		checks["database"] = pg.Health
		return postgres.NewProjectRepository(pg, retryConfig), postgres.NewUnitOfWork(pg, retryConfig), nil

	default:
		logger.Info("Using in-memory persistence layer")
		return memory.NewProjectRepository(), memory.NewUnitOfWork(), nil
	}
}

func (b *AppBuilder) newNotifier() domainnotification.Notifier {
	switch b.cfg.Notification.Driver {
	case "webhook":
		return notification.NewWebhookNotifier(b.cfg.Notification.Webhook.URL, b.cfg.Notification.Webhook.Timeout)
	case "memory":
		return notification.NewRecordingNotifier()
	default:
		return notification.NewLogNotifier(logger.Get())
	}
}

func (b *AppBuilder) newMoneyFactory() shared.MoneyFactory {
	if b.cfg.Ledger.BudgetCap > 0 {
		return shared.NewCappedFactory(b.cfg.Ledger.Currency, b.cfg.Ledger.BudgetCap)
	}
	return shared.NewCurrencyFactory(b.cfg.Ledger.Currency)
}

func closeGorm(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

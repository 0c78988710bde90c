package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/frahmantamala/finance-tracker/api"
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accesslog"
	accesslogPostgres "github.com/frahmantamala/finance-tracker/internal/accesslog/postgres"
	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	accountstatusPostgres "github.com/frahmantamala/finance-tracker/internal/accountstatus/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/finance-tracker/internal/auth/postgres"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	budgetPostgres "github.com/frahmantamala/finance-tracker/internal/budget/postgres"
	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-tracker/internal/category/postgres"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	coreUser "github.com/frahmantamala/finance-tracker/internal/core/user"
	"github.com/frahmantamala/finance-tracker/internal/creditcard"
	creditcardPostgres "github.com/frahmantamala/finance-tracker/internal/creditcard/postgres"
	"github.com/frahmantamala/finance-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/finance-tracker/internal/expense/postgres"
	"github.com/frahmantamala/finance-tracker/internal/messaging/amqp"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		fx.New(serverModule).Run()
	},
}

var infraModule = fx.Options(
	fx.Provide(
		provideConfig,
		provideLogger,
		provideDatabases,
		provideEventBus,
		func(bus *events.EventBus) events.Publisher { return bus },
	),
	fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
		fl := &fxevent.SlogLogger{Logger: l}
		fl.UseLogLevel(slog.LevelDebug)
		return fl
	}),
)

var serviceModule = fx.Provide(
	provideUserService,
	provideAccessLogService,
	provideAuthService,
	provideCategoryService,
	provideCreditCardService,
	provideAccountStatusService,
	provideBudgetService,
	provideExpenseService,
)

var serverModule = fx.Options(
	infraModule,
	serviceModule,
	fx.Provide(
		provideBaseHandler,
		provideHealthHandler,
		provideHandlers,
		provideRouter,
	),
	fx.Invoke(registerEventSubscribers, startHTTPServer),
)

func provideConfig() (*internal.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg *internal.Config) *slog.Logger {
	return logger.Init(cfg.Logging.Level, cfg.Logging.Format)
}

func provideDatabases(lc fx.Lifecycle, cfg *internal.Config) (*sql.DB, *sqlx.DB, *gorm.DB, error) {
	dbs, err := initDB(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	lc.Append(fx.StopHook(dbs.Close))
	return dbs.SQL, dbs.SQLX, dbs.Gorm, nil
}

func provideEventBus(lc fx.Lifecycle, log *slog.Logger) *events.EventBus {
	bus := events.NewEventBus(log)
	lc.Append(fx.StopHook(bus.Wait))
	return bus
}

func provideUserService(db *gorm.DB, cfg *internal.Config, log *slog.Logger) *user.Service {
	return user.NewService(userPostgres.NewUserRepository(db), coreUser.NewHasher(cfg.Security.BCryptCost), log)
}

func provideAccessLogService(db *gorm.DB, log *slog.Logger) *accesslog.Service {
	return accesslog.NewService(accesslogPostgres.NewAccessLogRepository(db), log)
}

func provideAuthService(
	db *gorm.DB,
	cfg *internal.Config,
	users *user.Service,
	access *accesslog.Service,
	publisher events.Publisher,
	log *slog.Logger,
) *auth.Service {
	return auth.NewService(auth.Dependencies{
		Users:     users,
		Passwords: coreUser.NewHasher(cfg.Security.BCryptCost),
		Tokens:    auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		Resets:    authPostgres.NewPasswordResetRepository(db),
		Access:    access,
		Publisher: publisher,
		Logger:    log,
		ResetTTL:  cfg.Security.ResetTokenDuration,
	})
}

func provideCategoryService(db *gorm.DB, log *slog.Logger) *category.Service {
	return category.NewService(categoryPostgres.NewCategoryRepository(db), log)
}

func provideCreditCardService(db *gorm.DB, dbx *sqlx.DB, log *slog.Logger) *creditcard.Service {
	return creditcard.NewService(
		creditcardPostgres.NewCreditCardRepository(db),
		creditcardPostgres.NewTotalsRepository(dbx),
		log,
	)
}

func provideAccountStatusService(dbx *sqlx.DB, cards *creditcard.Service, log *slog.Logger) *accountstatus.Service {
	return accountstatus.NewService(accountstatusPostgres.NewAccountStatusRepository(dbx), cards, log)
}

func provideBudgetService(db *gorm.DB, dbx *sqlx.DB, categories *category.Service, log *slog.Logger) *budget.Service {
	return budget.NewService(
		budgetPostgres.NewBudgetRepository(db),
		budgetPostgres.NewSpendRepository(dbx),
		categories,
		log,
	)
}

func provideExpenseService(
	db *gorm.DB,
	cards *creditcard.Service,
	categories *category.Service,
	publisher events.Publisher,
	log *slog.Logger,
) *expense.Service {
	return expense.NewService(expensePostgres.NewExpenseRepository(db), cards, categories, publisher, log)
}

func provideBaseHandler(cfg *internal.Config, log *slog.Logger) *transport.BaseHandler {
	return transport.NewBaseHandler(log, cfg.IsDevelopment())
}

func provideHealthHandler(db *sql.DB) *rest.HealthHandler {
	return rest.NewHealthHandler(db)
}

type handlerParams struct {
	fx.In

	Base          *transport.BaseHandler
	Health        *rest.HealthHandler
	Auth          *auth.Service
	User          *user.Service
	Category      *category.Service
	Expense       *expense.Service
	Budget        *budget.Service
	CreditCard    *creditcard.Service
	AccountStatus *accountstatus.Service
	AccessLog     *accesslog.Service
}

func provideHandlers(p handlerParams) rest.Handlers {
	return rest.Handlers{
		Health:        p.Health,
		Auth:          auth.NewHandler(p.Base, p.Auth),
		User:          user.NewHandler(p.Base, p.User),
		Category:      category.NewHandler(p.Base, p.Category),
		Expense:       expense.NewHandler(p.Base, p.Expense),
		Budget:        budget.NewHandler(p.Base, p.Budget),
		CreditCard:    creditcard.NewHandler(p.Base, p.CreditCard),
		AccountStatus: accountstatus.NewHandler(p.Base, p.AccountStatus),
		AccessLog:     accesslog.NewHandler(p.Base, p.AccessLog),
	}
}

func provideRouter(
	cfg *internal.Config,
	base *transport.BaseHandler,
	authService *auth.Service,
	handlers rest.Handlers,
	log *slog.Logger,
) (*chi.Mux, error) {
	opts := rest.RouterOptions{Origins: cfg.Server.Origins()}

	if cfg.Server.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("failed to load openapi document: %w", err)
		}
		validator, err := middleware.ValidateRequests(doc, base)
		if err != nil {
			return nil, fmt.Errorf("failed to build request validator: %w", err)
		}
		opts.Validator = validator
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, base, authService, handlers, opts, log)
	return router, nil
}

// registerEventSubscribers logs every domain event and forwards it to AMQP when a broker is configured.
func registerEventSubscribers(lc fx.Lifecycle, cfg *internal.Config, bus *events.EventBus, health *rest.HealthHandler, log *slog.Logger) error {
	bus.Subscribe(events.WildcardEventType, func(ctx context.Context, event events.Event) error {
		log.InfoContext(ctx, "domain event",
			"event_type", event.EventType(),
			"event_id", event.EventID())
		return nil
	})

	if cfg.Messaging.AMQPURL == "" {
		log.Info("AMQP_URL not set, events stay in-process")
		return nil
	}

	publisher, err := amqp.Dial(cfg.Messaging.AMQPURL, cfg.Messaging.Exchange, log)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	publisher.Register(bus)
	health.AddCheck("amqp", publisher.Check)
	lc.Append(fx.StopHook(publisher.Close))

	log.Info("forwarding events to AMQP", "exchange", cfg.Messaging.Exchange)
	return nil
}

func startHTTPServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *internal.Config, router *chi.Mux, log *slog.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
			}
			log.Info("Starting HTTP server", "address", server.Addr)
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

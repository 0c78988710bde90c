package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-tracker/api"
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accesslog"
	"github.com/frahmantamala/finance-tracker/internal/accountstatus"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/creditcard"
	"github.com/frahmantamala/finance-tracker/internal/expense"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups the HTTP handlers mounted under /api. Nil handlers are skipped.
type Handlers struct {
	Health        *HealthHandler
	Auth          *auth.Handler
	User          *user.Handler
	Category      *category.Handler
	Expense       *expense.Handler
	Budget        *budget.Handler
	CreditCard    *creditcard.Handler
	AccountStatus *accountstatus.Handler
	AccessLog     *accesslog.Handler
}

type RouterOptions struct {
	Origins []string
	// Validator, when set, checks /api requests against the OpenAPI document.
	Validator func(http.Handler) http.Handler
}

func RegisterAllRoutes(router *chi.Mux, base *transport.BaseHandler, verifier middleware.TokenVerifier, h Handlers, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger, base))
	router.Use(middleware.CORS(opts.Origins))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api", func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator)
		}

		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.With(middleware.OptionalAuthenticate(verifier)).Post("/register", h.Auth.Register)
				ar.Post("/login", h.Auth.Login)
				ar.Post("/forgot-password", h.Auth.ForgotPassword)
				ar.Post("/reset-password", h.Auth.ResetPassword)
			})
		}

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(verifier, base))
			admin := middleware.RequireRoles(base, internal.RoleAdmin)

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/me", h.User.GetCurrentUser)
					ur.Put("/me", h.User.UpdateCurrentUser)
					ur.Put("/me/password", h.User.ChangePassword)
					ur.Get("/me/sub-accounts", h.User.ListSubAccounts)
					ur.Post("/me/sub-accounts", h.User.CreateSubAccount)

					ur.With(admin).Get("/", h.User.ListUsers)
					ur.With(admin).Delete("/{id}", h.User.DeleteUser)
				})
				pr.With(admin).Get("/roles", h.User.ListRoles)
			}

			if h.Category != nil {
				pr.Route("/categories", func(cr chi.Router) {
					cr.Get("/", h.Category.GetCategories)
					cr.Get("/{id}", h.Category.GetCategory)
					cr.With(admin).Post("/", h.Category.CreateCategory)
					cr.With(admin).Put("/{id}", h.Category.UpdateCategory)
					cr.With(admin).Delete("/{id}", h.Category.DeleteCategory)
				})
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Get("/", h.Expense.GetExpenses)
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/{id}", h.Expense.GetExpense)
					er.Put("/{id}", h.Expense.UpdateExpense)
					er.Delete("/{id}", h.Expense.DeleteExpense)
				})
			}

			if h.Budget != nil {
				pr.Route("/budgets", func(br chi.Router) {
					br.Get("/", h.Budget.GetBudgets)
					br.Post("/", h.Budget.CreateBudget)
					// registered before /{id} so "status" is never read as an id
					br.Get("/status", h.Budget.GetStatus)
					br.Get("/{id}", h.Budget.GetBudget)
					br.Put("/{id}", h.Budget.UpdateBudget)
					br.Delete("/{id}", h.Budget.DeleteBudget)
				})
			}

			if h.CreditCard != nil {
				pr.Route("/cards", func(cr chi.Router) {
					cr.Get("/", h.CreditCard.GetCards)
					cr.Post("/", h.CreditCard.CreateCard)
					cr.Get("/{id}", h.CreditCard.GetCard)
					cr.Put("/{id}", h.CreditCard.UpdateCard)
					cr.Delete("/{id}", h.CreditCard.DeleteCard)
					cr.Get("/{id}/amount-due", h.CreditCard.GetAmountDue)
				})
			}

			if h.AccountStatus != nil {
				pr.Get("/account-status/monthly", h.AccountStatus.GetMonthly)
			}

			if h.AccessLog != nil {
				pr.Get("/access-logs/me", h.AccessLog.GetMyAccessLogs)
				pr.With(admin).Get("/access-logs", h.AccessLog.GetAccessLogs)
			}
		})
	})
}

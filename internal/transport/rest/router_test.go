package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-tracker/internal/category/postgres"
	"github.com/frahmantamala/finance-tracker/internal/testutil"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubVerifier map[string]*internal.User

func (s stubVerifier) VerifyToken(token string) (*internal.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, internal.ErrInvalidToken
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		health *rest.HealthHandler
	)

	BeforeEach(func() {
		db, err := testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())

		base := transport.NewBaseHandler(logger.Discard(), false)
		categories := category.NewHandler(base, category.NewService(categoryPostgres.NewCategoryRepository(db), logger.Discard()))
		health = rest.NewHealthHandler(nil)

		verifier := stubVerifier{
			"admin":   {ID: 1, RoleID: internal.RoleAdmin},
			"regular": {ID: 2, RoleID: internal.RoleRegular},
		}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, base, verifier, rest.Handlers{
			Health:   health,
			Category: categories,
		}, rest.RouterOptions{Origins: []string{"*"}}, logger.Discard())
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("serves the liveness probe without a token", func() {
		w := do(http.MethodGet, "/api/ping", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-Request-ID")).NotTo(BeEmpty())
	})

	It("publishes the OpenAPI document", func() {
		w := do(http.MethodGet, "/openapi.yml", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("openapi:"))
	})

	It("rejects protected routes without a token", func() {
		w := do(http.MethodGet, "/api/categories", "", "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lets any authenticated user read categories", func() {
		w := do(http.MethodGet, "/api/categories", "regular", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("restricts category writes to administrators", func() {
		w := do(http.MethodPost, "/api/categories", "regular", `{"name":"Travel"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w = do(http.MethodPost, "/api/categories", "admin", `{"name":"Travel"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	Describe("health", func() {
		It("is healthy when every check passes", func() {
			health.AddCheck("broker", func(context.Context) error { return nil })

			w := do(http.MethodGet, "/api/health", "", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp rest.HealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(rest.HealthHealthy))
			Expect(resp.Components).To(HaveKey("broker"))
		})

		It("reports 503 when a component fails", func() {
			health.AddCheck("postgres", func(context.Context) error { return errors.New("connection refused") })

			w := do(http.MethodGet, "/api/health", "", "")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

			var resp rest.HealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthUnhealthy))
			Expect(resp.Components["postgres"].Message).To(Equal("connection refused"))
		})
	})
})

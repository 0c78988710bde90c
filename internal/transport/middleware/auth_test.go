package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubVerifier struct {
	users map[string]*internal.User
}

func (s stubVerifier) VerifyToken(token string) (*internal.User, error) {
	if token == "expired" {
		return nil, internal.ErrTokenExpired
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, internal.ErrInvalidToken
}

var _ = Describe("Auth middleware", func() {
	var (
		base     *transport.BaseHandler
		verifier stubVerifier
		seen     *internal.User
		final    http.Handler
	)

	BeforeEach(func() {
		base = transport.NewBaseHandler(logger.Discard(), false)
		verifier = stubVerifier{users: map[string]*internal.User{
			"admin-token":   {ID: 1, Email: "admin@example.com", RoleID: internal.RoleAdmin},
			"regular-token": {ID: 2, Email: "user@example.com", RoleID: internal.RoleRegular},
		}}
		seen = nil
		final = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = internal.UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(h http.Handler, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	Describe("Authenticate", func() {
		It("should reject a missing token", func() {
			w := request(middleware.Authenticate(verifier, base)(final), "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("MISSING_TOKEN"))
		})

		It("should reject a non bearer scheme", func() {
			w := request(middleware.Authenticate(verifier, base)(final), "Basic abc")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should distinguish expired tokens", func() {
			w := request(middleware.Authenticate(verifier, base)(final), "Bearer expired")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("TOKEN_EXPIRED"))
		})

		It("should reject invalid tokens", func() {
			w := request(middleware.Authenticate(verifier, base)(final), "Bearer garbage")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_TOKEN"))
		})

		It("should put the principal in the context", func() {
			w := request(middleware.Authenticate(verifier, base)(final), "Bearer regular-token")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seen).To(Equal(&internal.User{ID: 2, Email: "user@example.com", RoleID: internal.RoleRegular}))
		})
	})

	Describe("OptionalAuthenticate", func() {
		It("should pass anonymous requests through", func() {
			w := request(middleware.OptionalAuthenticate(verifier)(final), "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seen).To(BeNil())
		})

		It("should ignore invalid tokens", func() {
			w := request(middleware.OptionalAuthenticate(verifier)(final), "Bearer garbage")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seen).To(BeNil())
		})

		It("should attach a valid principal", func() {
			request(middleware.OptionalAuthenticate(verifier)(final), "Bearer admin-token")
			Expect(seen.IsAdmin()).To(BeTrue())
		})
	})

	Describe("RequireRoles", func() {
		chain := func() http.Handler {
			return middleware.Authenticate(verifier, base)(middleware.RequireRoles(base, internal.RoleAdmin)(final))
		}

		It("should allow listed roles", func() {
			w := request(chain(), "Bearer admin-token")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should forbid other roles", func() {
			w := request(chain(), "Bearer regular-token")
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("INSUFFICIENT_ROLE"))
		})

		It("should answer 401 when no principal is present", func() {
			w := request(middleware.RequireRoles(base, internal.RoleAdmin)(final), "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})

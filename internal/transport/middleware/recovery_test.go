package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recovery and request id", func() {
	var handler http.Handler

	BeforeEach(func() {
		base := transport.NewBaseHandler(logger.Discard(), true)
		panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
		handler = middleware.RequestID(middleware.RecoveryMiddleware(logger.Discard(), base)(panicking))
	})

	It("answers 500 with the error envelope", func() {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKey("error"))
		Expect(body["cause"]).To(Equal("panic: boom"))
	})

	It("echoes an incoming request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("req-123"))
	})

	It("mints a request id when none is sent", func() {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
	})
})

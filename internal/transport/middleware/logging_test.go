package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logging middleware", func() {
	It("should drop credentials and keep the last four card digits", func() {
		out := redactBody([]byte(`{"email":"a@b.co","password":"secret1","card_number":"4111111111111111","nested":{"token":"abc"}}`))

		Expect(out).To(ContainSubstring(`"email":"a@b.co"`))
		Expect(out).NotTo(ContainSubstring("secret1"))
		Expect(out).To(ContainSubstring(`"card_number":"************1111"`))
		Expect(out).NotTo(ContainSubstring(`"abc"`))
	})

	It("should keep amounts and budgets readable", func() {
		out := redactBody([]byte(`{"monthly_budget":500,"amount":12.5}`))
		Expect(out).To(ContainSubstring(`"monthly_budget":500`))
		Expect(out).To(ContainSubstring(`"amount":12.5`))
	})

	It("should filter the authorization header", func() {
		headers := redactHeaders(http.Header{"Authorization": {"Bearer x"}, "Accept": {"application/json"}})
		Expect(headers).To(HaveKeyWithValue("Authorization", "[FILTERED]"))
		Expect(headers).To(HaveKeyWithValue("Accept", "application/json"))
	})

	It("should log request and response and keep the body readable", func() {
		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		var body string
		h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var b bytes.Buffer
			_, _ = b.ReadFrom(r.Body)
			body = b.String()
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Food"}`))
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(body).To(Equal(`{"name":"Food"}`))
		Expect(buf.String()).To(ContainSubstring("incoming request"))
		Expect(buf.String()).To(ContainSubstring("status_code=201"))
		Expect(buf.String()).To(ContainSubstring("Food"))
	})

	It("should skip bodies and probes above debug level", func() {
		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))

		h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"OK"}`))
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		Expect(buf.String()).To(BeEmpty())

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(`{"amount":5}`)))
		Expect(buf.String()).To(ContainSubstring("response_size=15"))
		Expect(buf.String()).NotTo(ContainSubstring("amount"))
	})
})

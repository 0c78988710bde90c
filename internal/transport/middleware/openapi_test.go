package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/api"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI request validation", func() {
	var (
		handler http.Handler
		reached bool
	)

	BeforeEach(func() {
		doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		validate, err := middleware.ValidateRequests(doc, transport.NewBaseHandler(logger.Discard(), false))
		Expect(err).NotTo(HaveOccurred())

		reached = false
		handler = validate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))
	})

	send := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	It("should accept a well formed expense", func() {
		w := send(http.MethodPost, "/api/expenses", `{"amount":12.5,"description":"Lunch","date":"2024-06-10","credit_card_id":1}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})

	It("should reject a string amount", func() {
		w := send(http.MethodPost, "/api/expenses", `{"amount":"a lot","description":"Lunch","date":"2024-06-10"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(reached).To(BeFalse())
	})

	It("should reject an unknown transaction type", func() {
		w := send(http.MethodPost, "/api/expenses", `{"amount":1,"description":"x","date":"2024-06-10","transaction_type":"refund"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a non numeric month", func() {
		w := send(http.MethodGet, "/api/account-status/monthly?month=june&year=2024&credit_card_id=1", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"month"`))
	})

	It("should leave range checks to the handlers", func() {
		w := send(http.MethodGet, "/api/account-status/monthly?month=13&year=2024&credit_card_id=1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should pass undocumented routes through", func() {
		w := send(http.MethodGet, "/swagger/index.html", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})
})

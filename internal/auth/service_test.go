package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accesslog"
	accesslogPostgres "github.com/frahmantamala/finance-tracker/internal/accesslog/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/finance-tracker/internal/auth/postgres"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/finance-tracker/internal/core/user"
	"github.com/frahmantamala/finance-tracker/internal/testutil"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) resetToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if reset, ok := e.(*events.PasswordResetRequestedEvent); ok {
			return reset.Token
		}
	}
	return ""
}

var _ = Describe("Auth Service", func() {
	var (
		ctx       context.Context
		service   *auth.Service
		users     *user.Service
		access    *accesslog.Service
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())

		hasher := coreuser.NewHasher(bcrypt.MinCost)
		users = user.NewService(userPostgres.NewUserRepository(db), hasher, logger.Discard())
		access = accesslog.NewService(accesslogPostgres.NewAccessLogRepository(db), logger.Discard())
		publisher = &recordingPublisher{}

		service = auth.NewService(auth.Dependencies{
			Users:     users,
			Passwords: hasher,
			Tokens:    auth.NewJWTTokenGenerator("0123456789abcdef-test-secret", time.Hour),
			Resets:    authPostgres.NewPasswordResetRepository(db),
			Access:    access,
			Publisher: publisher,
			Logger:    logger.Discard(),
		})
	})

	register := func(email string) *user.User {
		u, err := service.Register(ctx, auth.RegisterDTO{Name: "Ana", Email: email, Password: "secret1"}, nil)
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	Describe("Register", func() {
		It("forces the regular role for anonymous callers", func() {
			u, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Ana", Email: "ana@example.com", Password: "secret1", RoleID: internal.RoleAdmin,
			}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.RoleID).To(Equal(internal.RoleRegular))
		})

		It("lets an admin create another admin", func() {
			admin := &internal.User{ID: 99, RoleID: internal.RoleAdmin}
			u, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Root", Email: "root@example.com", Password: "secret1", RoleID: internal.RoleAdmin,
			}, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.RoleID).To(Equal(internal.RoleAdmin))
		})

		It("records a first register access and rejects duplicates", func() {
			u := register("ana@example.com")

			logs, err := access.ListForUser(ctx, u.ID, accesslog.Page{})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].Action).To(Equal(accesslog.ActionRegister))
			Expect(logs[0].FirstAccess).To(BeTrue())

			_, err = service.Register(ctx, auth.RegisterDTO{Name: "Ana", Email: "ana@example.com", Password: "secret1"}, nil)
			Expect(errors.Is(err, user.ErrDuplicateEmail)).To(BeTrue())
		})
	})

	Describe("Login", func() {
		It("returns a token the service can verify", func() {
			u := register("ana@example.com")

			resp, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())

			principal, err := service.VerifyToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.ID).To(Equal(u.ID))
			Expect(principal.RoleID).To(Equal(internal.RoleRegular))
		})

		It("logs the access without marking it first after registration", func() {
			u := register("ana@example.com")
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())

			logs, err := access.ListForUser(ctx, u.ID, accesslog.Page{})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
			Expect(logs[0].Action).To(Equal(accesslog.ActionLogin))
			Expect(logs[0].FirstAccess).To(BeFalse())
		})

		It("answers the same error for unknown email and wrong password", func() {
			register("ana@example.com")

			_, err := service.Login(ctx, auth.LoginDTO{Email: "nobody@example.com", Password: "secret1"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())

			_, err = service.Login(ctx, auth.LoginDTO{Email: "ana@example.com", Password: "wrong-pass"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})
	})

	Describe("password reset", func() {
		It("is silent for unknown emails", func() {
			Expect(service.ForgotPassword(ctx, auth.ForgotPasswordDTO{Email: "nobody@example.com"})).To(Succeed())
			Expect(publisher.resetToken()).To(BeEmpty())
		})

		It("accepts a token exactly once", func() {
			register("ana@example.com")
			Expect(service.ForgotPassword(ctx, auth.ForgotPasswordDTO{Email: "ana@example.com"})).To(Succeed())

			token := publisher.resetToken()
			Expect(token).To(HaveLen(64))

			Expect(service.ResetPassword(ctx, auth.ResetPasswordDTO{Token: token, Password: "brand-new"})).To(Succeed())
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.com", Password: "brand-new"})
			Expect(err).NotTo(HaveOccurred())

			err = service.ResetPassword(ctx, auth.ResetPasswordDTO{Token: token, Password: "another1"})
			Expect(errors.Is(err, auth.ErrInvalidResetToken)).To(BeTrue())
		})

		It("refuses expired tokens", func() {
			register("ana@example.com")
			Expect(service.ForgotPassword(ctx, auth.ForgotPasswordDTO{Email: "ana@example.com"})).To(Succeed())

			auth.SetServiceClock(service, func() time.Time { return time.Now().Add(2 * time.Hour) })
			err := service.ResetPassword(ctx, auth.ResetPasswordDTO{Token: publisher.resetToken(), Password: "brand-new"})
			Expect(errors.Is(err, auth.ErrInvalidResetToken)).To(BeTrue())
		})

		It("stores only the token hash", func() {
			Expect(auth.HashToken("abc")).To(HaveLen(64))
			Expect(auth.HashToken("abc")).NotTo(Equal("abc"))
		})
	})

	Describe("Handler", func() {
		var handler *auth.Handler

		BeforeEach(func() {
			handler = auth.NewHandler(transport.NewBaseHandler(logger.Discard(), false), service)
		})

		post := func(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h(w, req)
			return w
		}

		It("registers with 201 and logs in with 200", func() {
			w := post(handler.Register, `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			w = post(handler.Login, `{"email":"ana@example.com","password":"secret1"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp struct {
				Token string `json:"token"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Token).NotTo(BeEmpty())
		})

		It("answers 401 for bad credentials and 202 for forgot-password", func() {
			Expect(post(handler.Login, `{"email":"ana@example.com","password":"secret1"}`).Code).To(Equal(http.StatusUnauthorized))
			Expect(post(handler.ForgotPassword, `{"email":"ana@example.com"}`).Code).To(Equal(http.StatusAccepted))
		})

		It("answers 400 for an unknown reset token", func() {
			w := post(handler.ResetPassword, `{"token":"nope","password":"secret1"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

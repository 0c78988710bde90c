package auth_test

import (
	"errors"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenGenerator", func() {
	const secret = "0123456789abcdef-test-secret"

	var (
		generator *auth.JWTTokenGenerator
		principal *internal.User
	)

	BeforeEach(func() {
		generator = auth.NewJWTTokenGenerator(secret, 24*time.Hour)
		principal = &internal.User{ID: 42, Email: "ana@example.com", RoleID: internal.RoleRegular}
	})

	It("round-trips the principal claims", func() {
		token, expiresAt, err := generator.GenerateAccessToken(principal)
		Expect(err).NotTo(HaveOccurred())
		Expect(expiresAt).To(BeTemporally("~", time.Now().Add(24*time.Hour), time.Minute))

		claims, err := generator.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Principal()).To(Equal(principal))
		Expect(claims.Subject).To(Equal("42"))
	})

	It("defaults the lifetime to 24 hours", func() {
		Expect(auth.NewJWTTokenGenerator(secret, 0).AccessTokenTTL).To(Equal(24 * time.Hour))
	})

	It("reports expired tokens distinctly", func() {
		issued := time.Now().Add(-48 * time.Hour)
		auth.SetTokenClock(generator, func() time.Time { return issued })
		token, _, err := generator.GenerateAccessToken(principal)
		Expect(err).NotTo(HaveOccurred())

		auth.SetTokenClock(generator, time.Now)
		_, err = generator.ValidateToken(token)
		Expect(errors.Is(err, internal.ErrTokenExpired)).To(BeTrue())
	})

	It("rejects tokens signed with another secret", func() {
		token, _, err := auth.NewJWTTokenGenerator("another-secret-entirely", time.Hour).GenerateAccessToken(principal)
		Expect(err).NotTo(HaveOccurred())

		_, err = generator.ValidateToken(token)
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("rejects the none algorithm", func() {
		claims := &auth.Claims{UserID: 42, RoleID: internal.RoleAdmin}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = generator.ValidateToken(token)
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})

	It("rejects garbage", func() {
		_, err := generator.ValidateToken("not-a-token")
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
	})
})

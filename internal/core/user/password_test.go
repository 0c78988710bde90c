package user_test

import (
	"testing"

	coreuser "github.com/frahmantamala/finance-tracker/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestCoreUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core User Suite")
}

var _ = Describe("Hasher", func() {
	hasher := coreuser.NewHasher(bcrypt.MinCost)

	It("verifies the original password", func() {
		hash, err := hasher.Hash("secret123")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("secret123"))

		ok, err := hasher.Verify(hash, "secret123")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("rejects a different password without error", func() {
		hash, _ := hasher.Hash("secret123")
		ok, err := hasher.Verify(hash, "wrong")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("reports malformed hashes", func() {
		_, err := hasher.Verify("not-a-hash", "secret123")
		Expect(err).To(HaveOccurred())
	})

	It("falls back to the default cost when out of range", func() {
		Expect(coreuser.NewHasher(99).Cost).To(Equal(bcrypt.DefaultCost))
		Expect(coreuser.NewHasher(10).Cost).To(Equal(10))
	})
})

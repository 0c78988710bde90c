package validation_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("collects one error per failing field", func() {
		v := validation.NewValidator()
		v.Field("description", "").Required().MaxLength(10)
		v.Field("amount", -1.5).NonNegative(internal.ErrCodeInvalidAmount)
		v.Field("email", "nope").Email()

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.StatusCode).To(Equal(400))

		details, ok := err.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(3))
		Expect(details.Errors[0].Field).To(Equal("description"))
		Expect(details.Errors[1].Code).To(Equal(string(internal.ErrCodeInvalidAmount)))
		Expect(details.Errors[2].Code).To(Equal(string(internal.ErrCodeInvalidEmail)))
	})

	It("rejects non finite amounts", func() {
		v := validation.NewValidator()
		v.Field("amount", math.Inf(1)).NonNegative(internal.ErrCodeInvalidAmount)
		Expect(v.Validate()).NotTo(BeNil())
	})

	It("passes valid input", func() {
		v := validation.NewValidator()
		v.Field("name", "Food").Required().MaxLength(100)
		v.Field("amount", 0.0).NonNegative(internal.ErrCodeInvalidAmount)
		v.Field("transaction_type", "payment").OneOf([]string{"expense", "payment"}, internal.ErrCodeInvalidTxType)
		Expect(v.Validate()).To(BeNil())
	})

	It("counts characters for MaxLength and bytes for MaxBytes", func() {
		word := strings.Repeat("ñ", 10)

		v := validation.NewValidator()
		v.Field("description", word).MaxLength(10)
		Expect(v.Validate()).To(BeNil())

		v = validation.NewValidator()
		v.Field("description", word+"a").MaxLength(10)
		Expect(v.Validate()).NotTo(BeNil())

		v = validation.NewValidator()
		v.Field("password", word).MaxBytes(10)
		Expect(v.Validate()).NotTo(BeNil())
	})

	Describe("ParseDate", func() {
		It("accepts calendar dates and RFC3339", func() {
			d, err := validation.ParseDate("date", "2024-02-29")
			Expect(err).To(BeNil())
			Expect(d.Day()).To(Equal(29))

			d, err = validation.ParseDate("date", "2024-06-15T10:30:00Z")
			Expect(err).To(BeNil())
			Expect(d.Hour()).To(Equal(10))
		})

		It("rejects garbage", func() {
			_, err := validation.ParseDate("date", "15/06/2024")
			Expect(err).NotTo(BeNil())
		})
	})

	Describe("ValidateMonth", func() {
		It("rejects 0 and 13 with the invalid month error", func() {
			Expect(errors.Is(validation.ValidateMonth(0), internal.ErrInvalidMonth)).To(BeTrue())
			Expect(errors.Is(validation.ValidateMonth(13), internal.ErrInvalidMonth)).To(BeTrue())
			Expect(validation.ValidateMonth(12)).To(BeNil())
		})
	})
})

package creditcard

import (
	"regexp"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	expirationPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

type CreditCardResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	CardNumber     string    `json:"card_number"`
	CardHolderName string    `json:"card_holder_name"`
	ExpirationDate string    `json:"expiration_date"`
	Brand          string    `json:"brand"`
	Bank           string    `json:"bank"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	CutOffDate     string    `json:"cut_off_date"`
	PaymentDueDate string    `json:"payment_due_date"`
}

type CreditCardsResponse struct {
	Cards []CreditCardResponse `json:"cards"`
}

type AmountDueResponse struct {
	CreditCardID   int64     `json:"credit_card_id"`
	CycleStart     time.Time `json:"cycle_start"`
	CycleEnd       time.Time `json:"cycle_end"`
	TotalExpenses  float64   `json:"total_expenses"`
	TotalPaid      float64   `json:"total_paid"`
	AmountDue      float64   `json:"amount_due"`
	PaymentDueDate string    `json:"payment_due_date"`
}

// CreditCardDTO is used for create and full update.
type CreditCardDTO struct {
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpirationDate string `json:"expiration_date"`
	Brand          string `json:"brand"`
	Bank           string `json:"bank"`
	IsActive       *bool  `json:"is_active"`
	CutOffDate     string `json:"cut_off_date"`
	PaymentDueDate string `json:"payment_due_date"`
}

// parsedCard holds the validated, normalised form of a CreditCardDTO.
type parsedCard struct {
	CardNumber     string
	CardHolderName string
	ExpirationDate string
	Brand          string
	Bank           string
	IsActive       bool
	CutOffDate     time.Time
	PaymentDueDate time.Time
}

func (d CreditCardDTO) Parse() (*parsedCard, *internal.AppError) {
	number := NormalizeCardNumber(d.CardNumber)

	validator := validation.NewValidator()
	validator.Field("card_number", number).
		Required().
		Custom(func(v interface{}) *internal.AppError {
			if s, _ := v.(string); s != "" && !cardNumberPattern.MatchString(s) {
				return internal.NewValidationFieldError("card_number", "card_number must contain 12 to 19 digits", internal.ErrCodeInvalidCardNumber)
			}
			return nil
		})
	validator.Field("card_holder_name", d.CardHolderName).
		Required().
		MaxLength(100)
	validator.Field("expiration_date", d.ExpirationDate).
		Required().
		Custom(func(v interface{}) *internal.AppError {
			if s, _ := v.(string); s != "" && !expirationPattern.MatchString(s) {
				return internal.NewValidationFieldError("expiration_date", "expiration_date must be MM/YY", internal.ErrCodeInvalidDate)
			}
			return nil
		})
	validator.Field("brand", d.Brand).
		Required().
		MaxLength(50)
	validator.Field("bank", d.Bank).
		Required().
		MaxLength(100)
	if err := validator.Validate(); err != nil {
		return nil, err
	}

	cutOff, err := validation.ParseDate("cut_off_date", d.CutOffDate)
	if err != nil {
		return nil, err
	}
	paymentDue, err := validation.ParseDate("payment_due_date", d.PaymentDueDate)
	if err != nil {
		return nil, err
	}

	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}

	return &parsedCard{
		CardNumber:     number,
		CardHolderName: d.CardHolderName,
		ExpirationDate: d.ExpirationDate,
		Brand:          d.Brand,
		Bank:           d.Bank,
		IsActive:       active,
		CutOffDate:     cutOff.UTC(),
		PaymentDueDate: paymentDue.UTC(),
	}, nil
}

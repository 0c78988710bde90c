package creditcard

import (
	"strings"
	"time"

	creditcardDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/creditcard"
)

type CreditCard struct {
	ID             int64
	UserID         int64
	CardNumber     string
	CardHolderName string
	ExpirationDate string
	Brand          string
	Bank           string
	IsActive       bool
	CreatedAt      time.Time
	CutOffDate     time.Time
	PaymentDueDate time.Time
}

func (c *CreditCard) IsOwnedBy(userID int64) bool {
	return c.UserID == userID
}

// MaskedNumber keeps only the last four digits.
func (c *CreditCard) MaskedNumber() string {
	return MaskCardNumber(c.CardNumber)
}

func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// NormalizeCardNumber strips the separators people type between digit groups.
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

func (c *CreditCard) ToResponse() CreditCardResponse {
	return CreditCardResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		CardNumber:     c.MaskedNumber(),
		CardHolderName: c.CardHolderName,
		ExpirationDate: c.ExpirationDate,
		Brand:          c.Brand,
		Bank:           c.Bank,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		CutOffDate:     c.CutOffDate.Format(dateLayout),
		PaymentDueDate: c.PaymentDueDate.Format(dateLayout),
	}
}

func ToDataModel(c *CreditCard) *creditcardDatamodel.CreditCard {
	return &creditcardDatamodel.CreditCard{
		ID:             c.ID,
		UserID:         c.UserID,
		CardNumber:     c.CardNumber,
		CardHolderName: c.CardHolderName,
		ExpirationDate: c.ExpirationDate,
		Brand:          c.Brand,
		Bank:           c.Bank,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		CutOffDate:     c.CutOffDate,
		PaymentDueDate: c.PaymentDueDate,
	}
}

func FromDataModel(c *creditcardDatamodel.CreditCard) *CreditCard {
	return &CreditCard{
		ID:             c.ID,
		UserID:         c.UserID,
		CardNumber:     c.CardNumber,
		CardHolderName: c.CardHolderName,
		ExpirationDate: c.ExpirationDate,
		Brand:          c.Brand,
		Bank:           c.Bank,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		CutOffDate:     c.CutOffDate,
		PaymentDueDate: c.PaymentDueDate,
	}
}

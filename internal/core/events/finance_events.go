package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered          = "user.registered"
	EventTypeUserLoggedIn            = "user.logged_in"
	EventTypePasswordResetRequested  = "password_reset.requested"
	EventTypeExpenseCreated          = "expense.created"
	EventTypeExpenseDeleted          = "expense.deleted"
	EventTypeBudgetThresholdReached  = "budget.threshold_reached"
	EventTypeRecurringExpenseCreated = "expense.recurring_created"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type UserEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserRegisteredEvent(userID int64, email string) *UserEvent {
	return &UserEvent{
		BaseEvent: newBase(EventTypeUserRegistered, map[string]interface{}{
			"user_id": userID,
			"email":   email,
		}),
		UserID: userID,
		Email:  email,
	}
}

func NewUserLoggedInEvent(userID int64, email string) *UserEvent {
	return &UserEvent{
		BaseEvent: newBase(EventTypeUserLoggedIn, map[string]interface{}{
			"user_id": userID,
			"email":   email,
		}),
		UserID: userID,
		Email:  email,
	}
}

type PasswordResetRequestedEvent struct {
	BaseEvent
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewPasswordResetRequestedEvent keeps the raw token off the payload map so it is never forwarded or logged.
func NewPasswordResetRequestedEvent(userID int64, email, token string, expiresAt time.Time) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseEvent: newBase(EventTypePasswordResetRequested, map[string]interface{}{
			"user_id":    userID,
			"email":      email,
			"expires_at": expiresAt,
		}),
		UserID:    userID,
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

type ExpenseEvent struct {
	BaseEvent
	ExpenseID       int64   `json:"expense_id"`
	UserID          int64   `json:"user_id"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
}

func NewExpenseCreatedEvent(expenseID, userID int64, amount float64, transactionType string) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseCreated, expenseID, userID, amount, transactionType)
}

func NewExpenseDeletedEvent(expenseID, userID int64, amount float64, transactionType string) *ExpenseEvent {
	return newExpenseEvent(EventTypeExpenseDeleted, expenseID, userID, amount, transactionType)
}

func NewRecurringExpenseCreatedEvent(expenseID, userID int64, amount float64, transactionType string) *ExpenseEvent {
	return newExpenseEvent(EventTypeRecurringExpenseCreated, expenseID, userID, amount, transactionType)
}

func newExpenseEvent(eventType string, expenseID, userID int64, amount float64, transactionType string) *ExpenseEvent {
	return &ExpenseEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"expense_id":       expenseID,
			"user_id":          userID,
			"amount":           amount,
			"transaction_type": transactionType,
		}),
		ExpenseID:       expenseID,
		UserID:          userID,
		Amount:          amount,
		TransactionType: transactionType,
	}
}

type BudgetThresholdReachedEvent struct {
	BaseEvent
	UserID        int64   `json:"user_id"`
	CategoryID    int64   `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Spent         float64 `json:"spent"`
}

func NewBudgetThresholdReachedEvent(userID, categoryID int64, categoryName string, monthlyBudget, spent float64) *BudgetThresholdReachedEvent {
	return &BudgetThresholdReachedEvent{
		BaseEvent: newBase(EventTypeBudgetThresholdReached, map[string]interface{}{
			"user_id":        userID,
			"category_id":    categoryID,
			"category_name":  categoryName,
			"monthly_budget": monthlyBudget,
			"spent":          spent,
		}),
		UserID:        userID,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		MonthlyBudget: monthlyBudget,
		Spent:         spent,
	}
}

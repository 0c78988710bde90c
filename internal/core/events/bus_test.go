package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers to handlers of the event type and to wildcard handlers", func() {
		var typed, wildcard, other int32
		bus.Subscribe(events.EventTypeExpenseCreated, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&typed, 1)
			return nil
		})
		bus.Subscribe(events.WildcardEventType, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&wildcard, 1)
			return nil
		})
		bus.Subscribe(events.EventTypeUserLoggedIn, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&other, 1)
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewExpenseCreatedEvent(1, 2, 30, "expense"))).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&typed)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&wildcard)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&other)).To(BeZero())
	})

	It("keeps handlers running after the publishing context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypeExpenseCreated, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				handlerErr.Store(ctx.Err())
			}
			return nil
		})

		cancel()
		Expect(bus.Publish(ctx, events.NewExpenseCreatedEvent(1, 2, 30, "expense"))).To(Succeed())
		bus.Wait()
		Expect(handlerErr.Load()).To(BeNil())
	})

	It("returns the first handler error when publishing synchronously", func() {
		bus.Subscribe(events.EventTypeBudgetThresholdReached, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewBudgetThresholdReachedEvent(1, 2, "Food", 100, 90))
		Expect(err).To(MatchError(ContainSubstring("budget.threshold_reached")))
	})

	It("is a no-op without handlers", func() {
		Expect(bus.PublishSync(context.Background(), events.NewUserRegisteredEvent(1, "a@b.c"))).To(Succeed())
	})

	Describe("event payloads", func() {
		It("exposes the expense fields", func() {
			event := events.NewExpenseCreatedEvent(9, 4, 12.5, "payment")
			Expect(event.EventID()).NotTo(BeEmpty())
			Expect(event.Payload()).To(HaveKeyWithValue("expense_id", int64(9)))
			Expect(event.Payload()).To(HaveKeyWithValue("transaction_type", "payment"))
		})

		It("keeps the reset token out of the payload", func() {
			event := events.NewPasswordResetRequestedEvent(1, "a@b.c", "tok", time.Now())
			Expect(event.Token).To(Equal("tok"))
			Expect(event.Payload()).NotTo(HaveKey("token"))
		})
	})
})

package amqp_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/messaging/amqp"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	kinds      []string
	published  []published
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = append(f.declared, name)
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		channel   *fakeChannel
		publisher *amqp.Publisher
	)

	BeforeEach(func() {
		channel = &fakeChannel{}
		var err error
		publisher, err = amqp.NewPublisher(channel, "finance.events", logger.Discard())
		Expect(err).NotTo(HaveOccurred())
	})

	It("declares a topic exchange", func() {
		Expect(channel.declared).To(Equal([]string{"finance.events"}))
		Expect(channel.kinds).To(Equal([]string{"topic"}))
	})

	It("routes events by type with a JSON envelope", func() {
		event := events.NewBudgetThresholdReachedEvent(7, 3, "Food", 100, 85)

		Expect(publisher.Handle(context.Background(), event)).To(Succeed())
		Expect(channel.published).To(HaveLen(1))

		sent := channel.published[0]
		Expect(sent.exchange).To(Equal("finance.events"))
		Expect(sent.key).To(Equal(events.EventTypeBudgetThresholdReached))
		Expect(sent.msg.ContentType).To(Equal("application/json"))
		Expect(sent.msg.MessageId).To(Equal(event.EventID()))

		var envelope map[string]interface{}
		Expect(json.Unmarshal(sent.msg.Body, &envelope)).To(Succeed())
		Expect(envelope["type"]).To(Equal(events.EventTypeBudgetThresholdReached))
		Expect(envelope["data"]).To(HaveKeyWithValue("category_name", "Food"))
	})

	It("never forwards the raw reset token", func() {
		event := events.NewPasswordResetRequestedEvent(1, "a@b.c", "secret-token", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

		Expect(publisher.Handle(context.Background(), event)).To(Succeed())
		Expect(string(channel.published[0].msg.Body)).NotTo(ContainSubstring("secret-token"))
	})

	It("wraps publish failures", func() {
		channel.publishErr = errors.New("connection closed")

		err := publisher.Handle(context.Background(), events.NewExpenseCreatedEvent(1, 2, 10, "expense"))
		Expect(err).To(MatchError(ContainSubstring("publish expense.created")))
	})

	It("receives every event once registered on the bus", func() {
		bus := events.NewEventBus(logger.Discard())
		publisher.Register(bus)

		Expect(bus.PublishSync(context.Background(), events.NewUserLoggedInEvent(1, "a@b.c"))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewExpenseCreatedEvent(1, 1, 5, "payment"))).To(Succeed())
		Expect(channel.published).To(HaveLen(2))
	})

	It("closes the channel", func() {
		Expect(publisher.Close()).To(Succeed())
		Expect(channel.closed).To(BeTrue())
	})
})

var _ = Describe("Publisher health", func() {
	It("is healthy when built on a bare channel", func() {
		publisher, err := amqp.NewPublisher(&fakeChannel{}, "finance.events", logger.Discard())
		Expect(err).NotTo(HaveOccurred())
		Expect(publisher.Check(context.Background())).To(Succeed())
		Expect(publisher.Close()).To(Succeed())
	})
})

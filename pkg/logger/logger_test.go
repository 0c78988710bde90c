package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("parses levels case-insensitively and defaults to info", func() {
		Expect(logger.ParseLevel("DEBUG")).To(Equal(slog.LevelDebug))
		Expect(logger.ParseLevel("warn")).To(Equal(slog.LevelWarn))
		Expect(logger.ParseLevel("error")).To(Equal(slog.LevelError))
		Expect(logger.ParseLevel("nonsense")).To(Equal(slog.LevelInfo))
	})

	It("writes json when asked to", func() {
		var buf bytes.Buffer
		l := logger.New(&buf, "info", "json")
		l.Info("hello", "user_id", 7)
		Expect(buf.String()).To(ContainSubstring(`"msg":"hello"`))
		Expect(buf.String()).To(ContainSubstring(`"user_id":7`))
	})

	It("carries fields through the context", func() {
		ctx := logger.With(context.Background(), "request_id", "abc")
		Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})
})

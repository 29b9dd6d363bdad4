package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("creates a console logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriters(&buf), logger.WithNoColor(true))
			l.Info("hello", zap.String("key", "value"))

			output := buf.String()
			Expect(output).To(ContainSubstring("INFO"))
			Expect(output).To(ContainSubstring("hello"))
			Expect(output).To(ContainSubstring(`"key": "value"`))
		})

		It("respects debug level", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriters(&buf), logger.WithDebug(true))
			l.Debug("debug msg")

			Expect(buf.String()).To(ContainSubstring("debug msg"))
		})

		It("filters debug when not enabled", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriters(&buf), logger.WithDebug(false))
			l.Debug("hidden")

			Expect(buf.String()).To(BeEmpty())
		})

		It("creates a JSON logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriters(&buf), logger.WithJSON(true), logger.WithCaller(false))
			l.Info("structured", zap.Int("count", 42))

			var parsed map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &parsed)).To(Succeed())
			Expect(parsed["msg"]).To(Equal("structured"))
			Expect(parsed["count"]).To(BeNumerically("==", 42))
			Expect(parsed).To(HaveKey("time"))
			Expect(parsed).NotTo(HaveKey("caller"))
		})

		It("supports multiple writers", func() {
			var buf1, buf2 bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf1, &buf2)
			l.Info("multi")

			Expect(buf1.String()).To(ContainSubstring("multi"))
			Expect(buf2.String()).To(ContainSubstring("multi"))
		})
	})

	Describe("Nop", func() {
		It("discards all output", func() {
			l := logger.Nop()
			Expect(func() {
				l.Info("msg")
				l.With(zap.String("k", "v")).Warn("msg")
			}).NotTo(Panic())
			Expect(l.Core().Enabled(zap.ErrorLevel)).To(BeFalse())
		})
	})
})

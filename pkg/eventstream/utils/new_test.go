package eventstreamutils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/eventstream/kafka"
	"github.com/papercomputeco/recall/pkg/eventstream/nop"
	eventstreamutils "github.com/papercomputeco/recall/pkg/eventstream/utils"
)

var _ = Describe("NewPublisher", func() {
	It("defaults to the no-op publisher", func() {
		p, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{})
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&nop.Publisher{}))
	})

	It("builds a kafka publisher", func() {
		p, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
			ProviderType: "kafka",
			Brokers:      []string{"localhost:9092"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&kafka.Publisher{}))
		Expect(p.Close()).To(Succeed())
	})

	It("propagates kafka configuration errors", func() {
		_, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{ProviderType: "kafka"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{ProviderType: "nats"})
		Expect(err).To(MatchError(ContainSubstring("unsupported eventstream provider")))
	})
})

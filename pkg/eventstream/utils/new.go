package eventstreamutils

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/recall/pkg/eventstream"
	"github.com/papercomputeco/recall/pkg/eventstream/kafka"
	"github.com/papercomputeco/recall/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// ProviderType is "nop" (or empty) or "kafka".
	ProviderType string
	Brokers      []string
	Topic        string
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch strings.ToLower(o.ProviderType) {
	case "", "nop", "none":
		return nop.NewPublisher(), nil
	case "kafka":
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", o.ProviderType)
	}
}

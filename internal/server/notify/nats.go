package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn used for delivery.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSNotifier publishes deliveries as JSON to "<prefix>.<kind>".
type NATSNotifier struct {
	pub    Publisher
	prefix string
}

func NewNATSNotifier(pub Publisher, prefix string) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: prefix}
}

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("gophauth"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

// Subject returns the subject a delivery of the given kind is published to.
func (n *NATSNotifier) Subject(kind models.DeliveryKind) string {
	if n.prefix == "" {
		return string(kind)
	}
	return n.prefix + "." + string(kind)
}

func (n *NATSNotifier) Notify(ctx context.Context, d models.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}
	if err := n.pub.Publish(n.Subject(d.Kind), data); err != nil {
		return fmt.Errorf("publish delivery: %w", err)
	}
	return nil
}

// Package notify hands single-purpose tokens (password reset, verification)
// to whatever transport delivers them to the account owner.
package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Notifier delivers a token to its owner. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, d models.Delivery) error
}

// LogNotifier writes deliveries to the log for development setups. The
// token itself is only logged at debug level.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{log: l.With("module", "notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, d models.Delivery) error {
	n.log.Info(ctx, "delivery",
		"kind", d.Kind,
		"account_id", d.AccountID,
		"email", d.Email,
		"expires_at", d.ExpiresAt,
	)
	n.log.Debug(ctx, "delivery token", "kind", d.Kind, "account_id", d.AccountID, "token", d.Token)
	return nil
}

// New builds the notifier selected in the configuration. The returned close
// func releases the underlying connection, if any.
func New(ctx context.Context, c *config.Config, l logging.Logger) (Notifier, func(), error) {
	switch c.Notifier {
	case config.NotifierLog:
		return NewLogNotifier(l), func() {}, nil
	case config.NotifierNATS:
		conn, err := Connect(c.NATSURL)
		if err != nil {
			return nil, nil, err
		}
		return NewNATSNotifier(conn, c.NATSSubjectPrefix), conn.Close, nil
	case config.NotifierS3:
		client, err := NewS3Client(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Notifier(client, c.S3Bucket), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notifier %q", c.Notifier)
	}
}

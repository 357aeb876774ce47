package notify

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/config"
	"github.com/rgimusa/storefront/internal/domain"
	"gopkg.in/gomail.v2"
)

// MailNotifier emails the order summary to the configured staff addresses
type MailNotifier struct {
	from     string
	to       []string
	products ProductLookup
	send     func(m *gomail.Message) error
}

func NewMailNotifier(cfg config.MailConfig, products ProductLookup) *MailNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &MailNotifier{
		from:     cfg.From,
		to:       cfg.To,
		products: products,
		send:     func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (m *MailNotifier) Name() string { return "mail" }

func (m *MailNotifier) Notify(ctx context.Context, o domain.Order) error {
	if len(m.to) == 0 {
		return errors.New("no mail recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := BuildMail(m.from, m.to, o, m.products)
	if err := m.send(msg); err != nil {
		return errors.Wrapf(err, "send order mail %s", o.ID)
	}
	return nil
}

// BuildMail the staff notification for a new order
func BuildMail(from string, to []string, o domain.Order, products ProductLookup) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", fmt.Sprintf("Nuevo pedido %s - %s", o.ID, o.Buyer.Name))
	msg.SetBody("text/plain", OrderMessage(o, products))
	return msg
}

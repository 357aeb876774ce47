package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rgimusa/storefront/internal/domain"
)

// ProductLookup resolves catalog products by id
type ProductLookup interface {
	Product(id string) (domain.Product, bool)
}

// OrderMessage the text a buyer sends to the sales line after checkout.
// Lines for products no longer in the catalog are left out.
func OrderMessage(o domain.Order, products ProductLookup) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "¡Hola! Soy %s y me gustaría hacer el siguiente pedido:\n\n", o.Buyer.Name)
	for _, it := range o.Items {
		p, ok := products.Product(it.ID)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "• %dx %s - %.2f\n", it.Qty, p.Name, p.Price*float64(it.Qty))
	}
	fmt.Fprintf(&sb, "\nEnvío: %s\n", o.Shipping.Label())
	fmt.Fprintf(&sb, "*Total: %.2f*\n\n", o.Total)
	fmt.Fprintf(&sb, "Mi WhatsApp: %s\n\n", o.Buyer.Phone)
	sb.WriteString("¡Gracias!")
	return sb.String()
}

// WhatsAppLink a wa.me deep link opening a chat with number and a prefilled message
func WhatsAppLink(number, message string) string {
	number = strings.TrimLeft(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number), "0")
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

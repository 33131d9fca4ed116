package infra

// whatsapp.go — outbound notification interface.
// The core never delivers messages; it only builds the prefilled wa.me deep
// link the storefront (or the dashboard, on finalize-and-notify) opens.

import (
	"fmt"
	"net/url"
	"strings"

	"chichapos/internal/model"

	"github.com/shopspring/decimal"
)

// MensajePedido renders the order summary text used as the WhatsApp body:
// itemized list, total, modality, payment method.
func MensajePedido(p *model.Pedido) string {
	var b strings.Builder

	b.WriteString("*NUEVO PEDIDO — Chicha*\n\n")
	b.WriteString(fmt.Sprintf("*Cliente:* %s\n", p.ClienteNombre))

	if p.TipoEntrega == model.EntregaDelivery {
		b.WriteString("*Modalidad:* 🛵 DELIVERY\n")
		b.WriteString(fmt.Sprintf("*Dirección:* %s\n", p.Direccion))
	} else {
		b.WriteString("*Modalidad:* 🏠 RECOJO EN LOCAL\n")
	}
	b.WriteString(fmt.Sprintf("*Pago:* %s\n\n", strings.ToUpper(string(p.MetodoPago))))

	for _, item := range p.Items {
		nombre := item.ProductoNombre
		if item.VarianteNombre != nil {
			nombre = fmt.Sprintf("%s (%s)", nombre, *item.VarianteNombre)
		}
		subtotal := item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		b.WriteString(fmt.Sprintf("• %dx %s — S/ %s\n", item.Cantidad, nombre, subtotal.StringFixed(2)))
	}

	b.WriteString(fmt.Sprintf("\n💰 *TOTAL: S/ %s*", p.MontoTotal.StringFixed(2)))
	return b.String()
}

// LinkWhatsapp builds the wa.me deep link with the prefilled message.
// Non-digit characters in the configured number are stripped.
func LinkWhatsapp(numero, mensaje string) string {
	var digits strings.Builder
	for _, r := range numero {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), url.QueryEscape(mensaje))
}

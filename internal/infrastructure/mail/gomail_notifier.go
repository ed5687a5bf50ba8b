// Package mail envía los avisos de cambio de estado del workflow por SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/pkg/config"
	"github.com/mochkris/compras-api/pkg/logger"
)

var _ purchasing.Notifier = (*GomailNotifier)(nil)

// GomailNotifier implementa purchasing.Notifier sobre SMTP (gomail).
// Los fallos de envío se registran y no interrumpen la transición que los
// originó: el correo es mejor esfuerzo.
type GomailNotifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewGomailNotifier construye el notificador con la configuración SMTP.
func NewGomailNotifier(cfg config.SMTPConfig, log *logger.Logger) *GomailNotifier {
	return &GomailNotifier{cfg: cfg, log: log}
}

// NotifyStatusChange envía el aviso de que la orden cambió de estado.
func (n *GomailNotifier) NotifyStatusChange(_ context.Context, po *entity.PurchaseOrder, actorName string) error {
	if !n.cfg.Enabled() || n.cfg.To == "" {
		return nil
	}

	subject := fmt.Sprintf("Orden %s: %s", po.PONumber, po.Status)
	body := fmt.Sprintf(`
		<html><body>
		<p>La orden de compra <b>%s</b> pasó al estado <b>%s</b>.</p>
		<p>Actor: %s</p>
		<p>Total: $%s</p>
		</body></html>`,
		po.PONumber, po.Status, actorName, po.Subtotal().StringFixed(2),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", n.cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		n.log.Warn().Err(err).Str("po", po.PONumber).Msg("no se pudo enviar el aviso de cambio de estado")
		return err
	}
	n.log.Info().Str("po", po.PONumber).Str("status", string(po.Status)).Msg("aviso de cambio de estado enviado")
	return nil
}

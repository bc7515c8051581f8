package services

import (
	"fmt"
	"net/url"
	"time"

	"stockage-api/config"
	"stockage-api/models"

	"gopkg.in/gomail.v2"
)

// Notifier sends the client-facing email for deposits and withdrawals.
// A send failure is logged and swallowed: the data mutation that
// triggered it is never rolled back, and there is no retry.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// SendDepositNotification mails the client after a material is registered.
func (n *Notifier) SendDepositNotification(material models.Material, client models.User) {
	if client.Email == "" {
		return
	}

	date := time.Now().Format("02/01/2006")
	totalValue := material.EstimatedValue

	qrContent := fmt.Sprintf(`ALPHA SECURITY - Nouveau depot

Matiere: %s
Quantite: %g %s
Valeur: %.2f EUR
Date: %s
Client: %s`,
		material.MaterialName, material.Quantity, material.Unit,
		totalValue, date, clientDisplayName(client))

	subject := fmt.Sprintf("📦 Nouveau dépôt - %s", material.MaterialName)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Nouveau dépôt enregistré</h3>
				<p>Matière: <strong>%s</strong></p>
				<p>Quantité: <strong>%g %s</strong></p>
				<p>Emplacement: <strong>%s</strong></p>
				<p>Date: <strong>%s</strong></p>
				<p>Scannez le QR Code ci-dessous pour consulter les détails.</p>
				<img src="%s" alt="QR Code" width="200" height="200">
				<p><a href="%s">Accéder à votre espace</a></p>
				<p>Ceci est un message automatique, merci de ne pas y répondre.</p>
			</body>
		</html>
	`, material.MaterialName, material.Quantity, material.Unit,
		material.StorageLocation, date, qrCodeURL(qrContent), config.AppBaseURL)

	n.send(client.Email, subject, body)
}

// SendWithdrawalNotification mails the client after an exit movement.
func (n *Notifier) SendWithdrawalNotification(material models.Material, client models.User, withdrawn float64) {
	if client.Email == "" {
		return
	}

	date := time.Now().Format("02/01/2006")

	qrContent := fmt.Sprintf(`ALPHA SECURITY - Sortie de stock

Matiere: %s
Quantite retiree: %g %s
Stock restant: %g %s
Date: %s
Client: %s`,
		material.MaterialName, withdrawn, material.Unit,
		material.Quantity, material.Unit, date, clientDisplayName(client))

	subject := fmt.Sprintf("📤 Sortie de stock - %s", material.MaterialName)
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Sortie de stock enregistrée</h3>
				<p>Matière: <strong>%s</strong></p>
				<p>Quantité retirée: <strong>%g %s</strong></p>
				<p>Stock restant: <strong>%g %s</strong></p>
				<p>Date: <strong>%s</strong></p>
				<p>Scannez le QR Code ci-dessous pour consulter les détails.</p>
				<img src="%s" alt="QR Code" width="200" height="200">
				<p><a href="%s">Accéder à votre espace</a></p>
				<p>Ceci est un message automatique, merci de ne pas y répondre.</p>
			</body>
		</html>
	`, material.MaterialName, withdrawn, material.Unit,
		material.Quantity, material.Unit, date, qrCodeURL(qrContent), config.AppBaseURL)

	n.send(client.Email, subject, body)
}

func (n *Notifier) send(to, subject, body string) {
	if !config.MailConfigured() {
		fmt.Println("Email notification skipped (SMTP not configured):", subject)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		fmt.Println("Failed to send email notification:", err)
		return
	}

	fmt.Println("Email notification sent to:", to)
}

// qrCodeURL builds the scannable summary image served by the public
// qrserver API; the image is referenced from the email body, not attached.
func qrCodeURL(content string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(content)
}

func clientDisplayName(client models.User) string {
	if client.CompanyName != "" {
		return client.CompanyName
	}
	if client.FullName != "" {
		return client.FullName
	}
	return "N/A"
}

package mailing

import (
	"Receipt-Radar-Backend/entities"
	"Receipt-Radar-Backend/internal/utils"
	"fmt"
	"html"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", emailConfig.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	err = dialer.DialAndSend(mailer)
	if err != nil {
		return err
	}

	return nil
}

type (
	Mailer interface {
		ReceiptProcessed(toEmail string, receipt *entities.Receipt) error
	}

	mailer struct{}
)

func NewMailer() Mailer {
	return &mailer{}
}

func (m *mailer) ReceiptProcessed(toEmail string, receipt *entities.Receipt) error {
	subject := fmt.Sprintf("Your receipt %q has been processed", receiptDisplayName(receipt))
	return SendMail(toEmail, subject, processedMailBody(receipt))
}

func receiptDisplayName(receipt *entities.Receipt) string {
	if receipt.FileDisplayName != "" {
		return receipt.FileDisplayName
	}
	return receipt.FileName
}

// processedMailBody escapes every value that originates from the uploader or
// the extraction model before it lands in the HTML body.
func processedMailBody(receipt *entities.Receipt) string {
	return fmt.Sprintf(
		"<p>Good news! Your receipt <b>%s</b> has been processed.</p>"+
			"<p>Merchant: %s<br>Amount: %.2f %s</p>"+
			"<p>Open your dashboard to review the extracted details: %s/receipts/%s</p>",
		html.EscapeString(receiptDisplayName(receipt)),
		html.EscapeString(receipt.MerchantName),
		receipt.TransactionAmount,
		html.EscapeString(receipt.Currency),
		LoadMailConfig().AppURL,
		receipt.ID.String(),
	)
}

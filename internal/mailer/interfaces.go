package mailer

// Service delivers registration mail. Implementations: MailerSend, SMTP,
// and a dev logger that prints instead of sending.
type Service interface {
	SendOTPEmail(toEmail, code string) error
	SendWelcomeEmail(toEmail string) error
}

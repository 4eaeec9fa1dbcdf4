package mailer

import (
	"github.com/tekanya/plumbing-bookings/pkg/logger"
)

type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendOTPEmail(toEmail, code string) error {
	logger.Info("[DEV MAIL] OTP Email",
		"to", toEmail,
		"code", code,
	)
	return nil
}

func (d *DevMailer) SendWelcomeEmail(toEmail string) error {
	logger.Info("[DEV MAIL] Welcome Email",
		"to", toEmail,
	)
	return nil
}

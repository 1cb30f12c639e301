package mailer

import (
	"fmt"

	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
)

// DevMailer prints emails to stdout instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendVerificationCode(toEmail, toName, code string) error {
	logger.Info("[DEV MAIL] Verification Code Email",
		"to", toEmail,
		"name", toName,
	)

	fmt.Printf("\n"+
		"=================================================================\n"+
		"VERIFICATION CODE EMAIL (DEV MODE)\n"+
		"=================================================================\n"+
		"To: %s (%s)\n"+
		"Subject: Your verification code\n"+
		"\n"+
		"Code: %s\n"+
		"=================================================================\n\n",
		toEmail, toName, code)

	return nil
}

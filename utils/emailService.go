package utils

import (
	"fmt"
	"log"
	"net/http"

	"kaifacademy/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendEmail delivers an HTML email through SendGrid. Without an API key the message is only logged.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SendgridApiKey == "" {
		log.Printf("[EMAIL] SendGrid not configured, skipping %q to %s", subject, toEmail)
		return nil
	}

	from := sgmail.NewEmail(cfg.EmailSenderName, cfg.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", htmlBody)

	req := sendgrid.GetRequest(cfg.SendgridApiKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, res.StatusCode, res.Body)
		return fmt.Errorf("sendgrid status %d", res.StatusCode)
	}
	log.Printf("[EMAIL] Sent %q to %s", subject, toEmail)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6FB; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 28px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 36px 30px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #EEF2FF; padding: 15px; border-radius: 4px; border-left: 4px solid #F59E0B; margin: 20px 0; }
			.otp { font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; }
			.footer { background-color: #F4F6FB; padding: 18px; text-align: center; font-size: 12px; color: #6B7280; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>KAIF TECH ACADEMY</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; Kaif Tech Academy. Learn in your language.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Kaif Tech Academy"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created. Browse the catalog and start your first course today.</p>
	`, name)

	go SendEmail(email, name, subject, getEmailTemplate("Welcome Onboard!", body))
}

func SendOTPEmail(otp, email, name string) {
	subject := "Your verification code"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Use the code below to verify your email address. It expires in 10 minutes.</p>
		<p class="otp">%s</p>
	`, name, otp)

	go SendEmail(email, name, subject, getEmailTemplate("Verify your email", body))
}

func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Open <em>My Courses</em> to start the first lesson. Your progress is saved automatically.</div>
	`, name, courseTitle)

	go SendEmail(email, name, subject, getEmailTemplate("Enrollment Successful", body))
}

func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
		<p>Anyone can verify it with this number on the certificates page.</p>
	`, name, courseTitle, certificateNumber)

	go SendEmail(email, name, subject, getEmailTemplate("Course Completed", body))
}

func SendPaymentFailedEmail(email, name, courseTitle, reason string) {
	subject := "Payment failed for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We could not complete the payment for <strong>%s</strong>.</p>
		<div class="info-box">%s</div>
		<p>No amount has been charged. You can retry from the course page.</p>
	`, name, courseTitle, reason)

	go SendEmail(email, name, subject, getEmailTemplate("Payment Failed", body))
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService delivers invitation emails via Amazon SES. It is the
// notification gateway: the approval is complete once the pass is durable,
// and delivery is best-effort on top of that.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that skips all sends.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendInvitationEmail sends the approval email carrying the guest's personal
// QR code and the fallback gate link
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, guestName, gateURL, qrImageURL string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", toEmail)
		return nil
	}

	subject := "Terrace After-Party Invitation - You're Approved!"

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #667eea; color: white; padding: 30px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f8f9fa; padding: 30px; border-radius: 0 0 5px 5px; }
		.qr-box { background: white; padding: 20px; border-radius: 10px; margin: 20px 0; text-align: center; border: 2px dashed #667eea; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>You're Invited!</h1>
			<p>Terrace After-Party by the Sea</p>
		</div>
		<div class="content">
			<p>Hey %s,</p>
			<p>Your request has been <strong>approved</strong>! Doors open at midnight on the seaside terrace.</p>
			<div class="qr-box">
				<h3>Your Personal QR Code</h3>
				<p>Show this at the entrance. <strong>One-time use only!</strong></p>
				<img src="%s" alt="Invitation QR code" width="256" height="256">
			</div>
			<p>Backup access link if you can't scan the code:</p>
			<p style="word-break: break-all;"><a href="%s">%s</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email. Questions? Just reply.</p>
		</div>
	</div>
</body>
</html>
`, guestName, qrImageURL, gateURL, gateURL)

	textBody := fmt.Sprintf(`Hey %s,

Your request has been approved! Doors open at midnight on the seaside terrace.

Your personal entry link (one-time use only):
%s

See you at midnight on the terrace!
`, guestName, gateURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}

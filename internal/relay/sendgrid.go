package relay

import (
	"context"
	"fmt"
	"time"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const mailSendPath = "/v3/mail/send"

type Message struct {
	ToEmail string
	ToName  string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// SendGridMailer delivers messages through the SendGrid v3 mail API.
type SendGridMailer struct {
	APIKey    string
	BaseURL   string // empty means https://api.sendgrid.com
	FromEmail string
	FromName  string
	Timeout   time.Duration // zero leaves the call bounded by ctx alone
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.FromName, m.FromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)

	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	if msg.ReplyTo != "" {
		email.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	request := sendgrid.GetRequest(m.APIKey, mailSendPath, m.BaseURL)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(email)

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

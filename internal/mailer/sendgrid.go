package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendEndpoint = "/v3/mail/send"
	senderName   = "Daily Digest"
)

// SendGrid delivers messages through the SendGrid v3 API.
type SendGrid struct {
	apiKey string
	host   string
}

// NewSendGrid creates a SendGrid transport. An empty apiKey is allowed here;
// Send reports it as ErrMissingCredential.
func NewSendGrid(apiKey string) *SendGrid {
	return &SendGrid{apiKey: apiKey}
}

// WithHost points the transport at another API host, e.g. a test server.
func (s *SendGrid) WithHost(host string) *SendGrid {
	s.host = host
	return s
}

// Send submits msg. It succeeds only when the API answers with a 2xx status.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		return ErrMissingCredential
	}

	from := mail.NewEmail(senderName, msg.From)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	client := sendgrid.NewSendClient(s.apiKey)
	if s.host != "" {
		client.BaseURL = s.host + sendEndpoint
	}

	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		te := &TransportError{Err: err}
		if resp != nil {
			te.StatusCode, te.Body = resp.StatusCode, resp.Body
		}
		return te
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}

func (s *SendGrid) String() string {
	return fmt.Sprintf("sendgrid(credential set: %t)", s.apiKey != "")
}

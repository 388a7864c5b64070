package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/deusflow/dailydigest/internal/digest"
	"github.com/deusflow/dailydigest/internal/logger"
	"github.com/deusflow/dailydigest/internal/news"
)

// DefaultFrom is the placeholder sender; the provider replaces it with the verified sender.
const DefaultFrom = "noreply@yourdailynews.org"

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("mail API key is not set")
	// ErrNothingToSend is returned for an empty article list.
	ErrNothingToSend = errors.New("no articles to send")
)

// TransportError is a delivery the provider did not accept.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mail transport error: %v", e.Err)
	}
	return fmt.Sprintf("mail API error: status %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message is one outgoing email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a Message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Renderer builds the digest body and subject.
type Renderer interface {
	Render(articles []news.Article) (string, error)
	Subject(n int) string
}

// Dispatcher renders the digest and hands it to the transport.
type Dispatcher struct {
	transport Transport
	renderer  Renderer
	from      string
}

// NewDispatcher creates a Dispatcher. An empty from means DefaultFrom.
func NewDispatcher(transport Transport, renderer Renderer, from string) *Dispatcher {
	if from == "" {
		from = DefaultFrom
	}
	return &Dispatcher{transport: transport, renderer: renderer, from: from}
}

// Compose renders the message without sending it.
func (d *Dispatcher) Compose(articles []news.Article, recipient string) (Message, error) {
	if len(articles) == 0 {
		return Message{}, ErrNothingToSend
	}

	html, err := d.renderer.Render(articles)
	if err != nil {
		return Message{}, err
	}
	text, err := digest.PlainText(html)
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    d.from,
		To:      recipient,
		Subject: d.renderer.Subject(len(articles)),
		HTML:    html,
		Text:    text,
	}, nil
}

// Send delivers the digest to recipient. A nil error means the provider
// accepted the message; any failure is logged and returned.
func (d *Dispatcher) Send(ctx context.Context, articles []news.Article, recipient string) error {
	msg, err := d.Compose(articles, recipient)
	if err != nil {
		logger.Error("Failed to build digest", "error", err)
		return err
	}

	if d.transport == nil {
		logger.Error("Mail API key is not set")
		return ErrMissingCredential
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrMissingCredential) {
			logger.Error("Mail API key is not set")
		} else {
			logger.Error("Error sending email", "error", err)
		}
		return err
	}

	logger.Info("Email sent", "to", recipient, "articles", len(articles))
	return nil
}

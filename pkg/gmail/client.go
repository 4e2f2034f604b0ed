package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const currentUser = "me"

// Message is the transport-neutral shape handed to the mailbox service.
type Message struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Snippet  string
	Date     string
	Unread   bool
	Labels   []string
}

// Client wraps the Gmail API surface used by the mailbox service.
type Client struct {
	svc *gmailapi.Service
}

// NewClient creates an authenticated Gmail client from a stored token.
func NewClient(ctx context.Context, cfg config.GmailConfig, token *oauth2.Token) (*Client, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	oauthCfg, err := NewOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := oauthCfg.Client(ctx, token)
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListInbox returns up to maxResults inbox messages matching the optional query.
func (c *Client) ListInbox(ctx context.Context, query string, maxResults int64) ([]Message, error) {
	call := c.svc.Users.Messages.List(currentUser).
		LabelIds("INBOX").
		MaxResults(maxResults).
		Context(ctx)
	if query != "" {
		call = call.Q(query)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	messages := make([]Message, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		msg, err := c.getMetadata(ctx, ref.Id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Get fetches one message with headers and snippet.
func (c *Client) Get(ctx context.Context, id string) (*Message, error) {
	msg, err := c.getMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead removes the UNREAD label.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	_, err := c.svc.Users.Messages.Modify(currentUser, id, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	return nil
}

// Trash moves the message to the trash folder.
func (c *Client) Trash(ctx context.Context, id string) error {
	if _, err := c.svc.Users.Messages.Trash(currentUser, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("trashing message: %w", err)
	}
	return nil
}

// Send submits a plain-text email from the connected account.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	raw := buildRawMessage(to, subject, body)
	sent, err := c.svc.Users.Messages.Send(currentUser, &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	return sent.Id, nil
}

func (c *Client) getMetadata(ctx context.Context, id string) (Message, error) {
	full, err := c.svc.Users.Messages.Get(currentUser, id).
		Format("metadata").
		MetadataHeaders("From", "To", "Subject", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return Message{}, fmt.Errorf("fetching message %s: %w", id, err)
	}

	msg := Message{
		ID:       full.Id,
		ThreadID: full.ThreadId,
		Snippet:  full.Snippet,
		Labels:   full.LabelIds,
	}
	for _, label := range full.LabelIds {
		if label == "UNREAD" {
			msg.Unread = true
		}
	}
	if full.Payload != nil {
		for _, header := range full.Payload.Headers {
			switch header.Name {
			case "From":
				msg.From = header.Value
			case "To":
				msg.To = header.Value
			case "Subject":
				msg.Subject = header.Value
			case "Date":
				msg.Date = header.Value
			}
		}
	}
	return msg, nil
}

func buildRawMessage(to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(sb.String()))
}

package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultAPIURL = "https://graph.facebook.com/v21.0"

type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at another Graph API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(phoneNumberID, accessToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:       DefaultAPIURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has the credentials to send.
func (c *Client) Configured() bool {
	return c.phoneNumberID != "" && c.accessToken != ""
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &SendText{Body: truncate(body, MaxTextBodyLength)},
	}
	return c.send(ctx, msg)
}

// SendButtons sends a reply-button message. WhatsApp accepts one to three buttons.
func (c *Client) SendButtons(ctx context.Context, to, header, body string, buttons []Button) error {
	if len(buttons) == 0 || len(buttons) > MaxButtons {
		return fmt.Errorf("%w: %d buttons, want 1-%d", ErrInvalidMessage, len(buttons), MaxButtons)
	}
	fitted := make([]Button, len(buttons))
	for i, b := range buttons {
		if b.Reply.ID == "" {
			return fmt.Errorf("%w: button %d has no id", ErrInvalidMessage, i)
		}
		fitted[i] = Button{
			Type:  "reply",
			Reply: ButtonReply{ID: b.Reply.ID, Title: truncate(b.Reply.Title, MaxButtonTitleLength)},
		}
	}

	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type:   "button",
			Header: textHeader(header),
			Body:   InteractiveBody{Text: truncate(body, MaxInteractiveBodyLength)},
			Action: InteractiveAction{Buttons: fitted},
		},
	}
	return c.send(ctx, msg)
}

// SendList sends a list message. All sections together may hold at most ten rows.
func (c *Client) SendList(ctx context.Context, to, header, body, buttonText string, sections []Section) error {
	total := 0
	fitted := make([]Section, len(sections))
	for i, s := range sections {
		rows := make([]SectionRow, len(s.Rows))
		for j, r := range s.Rows {
			if r.ID == "" || len(r.ID) > MaxRowIDLength {
				return fmt.Errorf("%w: row %d/%d has an invalid id", ErrInvalidMessage, i, j)
			}
			rows[j] = SectionRow{
				ID:          r.ID,
				Title:       truncate(r.Title, MaxRowTitleLength),
				Description: truncate(r.Description, MaxRowDescriptionLength),
			}
		}
		total += len(rows)
		fitted[i] = Section{Title: truncate(s.Title, MaxSectionTitleLength), Rows: rows}
	}
	if total == 0 || total > MaxListRows {
		return fmt.Errorf("%w: %d list rows, want 1-%d", ErrInvalidMessage, total, MaxListRows)
	}

	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type:   "list",
			Header: textHeader(header),
			Body:   InteractiveBody{Text: truncate(body, MaxInteractiveBodyLength)},
			Action: InteractiveAction{
				Button:   truncate(buttonText, MaxListButtonLength),
				Sections: fitted,
			},
		},
	}
	return c.send(ctx, msg)
}

func textHeader(text string) *InteractiveHeader {
	if text == "" {
		return nil
	}
	return &InteractiveHeader{Type: "text", Text: truncate(text, MaxHeaderLength)}
}

func (c *Client) send(ctx context.Context, msg SendMessageRequest) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newAPIError(resp.StatusCode, respBody)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var env graphErrorEnvelope
	if json.Unmarshal(body, &env) == nil {
		apiErr.Code = env.Error.Code
		apiErr.Type = env.Error.Type
		apiErr.Message = env.Error.Message
		apiErr.TraceID = env.Error.FBTraceID
	}
	return apiErr
}

package whatsapp

// MessageKind is the coarse type of an inbound message.
type MessageKind string

const (
	KindText        MessageKind = "text"
	KindInteractive MessageKind = "interactive"
	KindOther       MessageKind = "other"
)

// Inbound is the one user message a webhook delivery is handled for.
// SelectionID is set only for button and list replies.
type Inbound struct {
	From           string
	MessageID      string
	Kind           MessageKind
	Text           string
	SelectionID    string
	SelectionTitle string
	ListReply      bool
	ProfileName    string
}

// DisplayText prefers the typed text, then the title of the selected list
// row or button. A message carries at most one selection.
func (m Inbound) DisplayText() string {
	if m.Text != "" {
		return m.Text
	}
	return m.SelectionTitle
}

// SelectionType names the reply shape for logs: "list", "button" or "".
func (m Inbound) SelectionType() string {
	switch {
	case m.SelectionID == "":
		return ""
	case m.ListReply:
		return "list"
	default:
		return "button"
	}
}

// IsSelection reports whether the message is a button or list reply.
func (m Inbound) IsSelection() bool {
	return m.Kind == KindInteractive && m.SelectionID != ""
}

// FirstMessage returns the message at entry[0].changes[0].value.messages[0].
// Any missing level means the delivery carries no user message (status
// updates, template events) and false is returned.
func (p *WebhookPayload) FirstMessage() (Inbound, bool) {
	if p == nil || len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return Inbound{}, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return Inbound{}, false
	}
	msg := value.Messages[0]

	in := Inbound{
		From:      msg.From,
		MessageID: msg.ID,
		Kind:      KindOther,
	}
	for _, c := range value.Contacts {
		if c.WaID == msg.From {
			in.ProfileName = c.Profile.Name
			break
		}
	}

	switch msg.Type {
	case "text":
		in.Kind = KindText
		if msg.Text != nil {
			in.Text = msg.Text.Body
		}
	case "interactive":
		in.Kind = KindInteractive
		if msg.Interactive == nil {
			break
		}
		switch {
		case msg.Interactive.ListReply != nil:
			in.ListReply = true
			in.SelectionID = msg.Interactive.ListReply.ID
			in.SelectionTitle = msg.Interactive.ListReply.Title
		case msg.Interactive.ButtonReply != nil:
			in.SelectionID = msg.Interactive.ButtonReply.ID
			in.SelectionTitle = msg.Interactive.ButtonReply.Title
		}
	case "button":
		in.Kind = KindInteractive
		if msg.Button != nil {
			in.SelectionID = msg.Button.Payload
			in.SelectionTitle = msg.Button.Text
		}
	}
	return in, true
}

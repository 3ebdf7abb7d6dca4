package menu

// ResponseKind tags which WhatsApp message shape a Response maps to.
type ResponseKind string

const (
	TextResponse   ResponseKind = "text"
	ButtonResponse ResponseKind = "button"
	ListResponse   ResponseKind = "list"
)

// Response is the single reply produced for one inbound message.
// Header is only used by the interactive kinds.
type Response struct {
	Kind    ResponseKind   `json:"kind"`
	Header  string         `json:"header,omitempty"`
	Body    string         `json:"body"`
	Buttons []ButtonOption `json:"buttons,omitempty"`
	List    *ListOption    `json:"list,omitempty"`
}

type ButtonOption struct {
	ID    string `json:"id"`    // Round-tripped back as the selection id
	Title string `json:"title"` // Max 20 chars (WhatsApp limit)
}

type ListOption struct {
	ButtonText string        `json:"button_text"` // Text on the button that opens the list (max 20 chars)
	Sections   []ListSection `json:"sections"`
}

type ListSection struct {
	Title string    `json:"title"` // Max 24 chars
	Rows  []ListRow `json:"rows"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`                 // Max 24 chars
	Description string `json:"description,omitempty"` // Max 72 chars
}

// IDs returns every selection id the response offers, in display order.
func (r Response) IDs() []string {
	var ids []string
	for _, b := range r.Buttons {
		ids = append(ids, b.ID)
	}
	if r.List != nil {
		for _, s := range r.List.Sections {
			for _, row := range s.Rows {
				ids = append(ids, row.ID)
			}
		}
	}
	return ids
}

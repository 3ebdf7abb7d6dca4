package menu

import (
	"fmt"
	"strings"
)

// Style selects how prompts are rendered.
type Style string

const (
	StyleText    Style = "text"
	StyleButtons Style = "buttons"
	StyleList    Style = "list"
)

// ParseStyle accepts the MENU_STYLE values.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleText:
		return StyleText, nil
	case StyleButtons:
		return StyleButtons, nil
	case StyleList, "":
		return StyleList, nil
	default:
		return "", fmt.Errorf("unknown menu style %q", s)
	}
}

const (
	maxButtons = 3

	NavigationHint = "Send 'menu' to return to the main menu."
	ThanksText     = "😊 You're welcome! Stay healthy. Send 'menu' anytime if you need more help."
	EmergencyText  = "🚑 If this is an emergency (severe bleeding, chest pain, trouble breathing), " +
		"please seek immediate medical care or call your local emergency number."
)

// Builder renders classifications as canned responses. Output depends only
// on its arguments.
type Builder struct {
	catalog *Catalog
	style   Style
}

func NewBuilder(c *Catalog, style Style) *Builder {
	if style == "" {
		style = StyleList
	}
	return &Builder{catalog: c, style: style}
}

// Build returns exactly one response for c. name is the sender's profile
// name and is only used in the greeting.
func (b *Builder) Build(c Classification, name string) Response {
	switch c.Kind {
	case Greeting:
		return b.greeting(name)
	case Thanks:
		return Response{Kind: TextResponse, Body: ThanksText}
	case Emergency:
		return Response{Kind: TextResponse, Body: EmergencyText}
	case NumericSelection, KeywordCategory, Selection:
		cat, ok := b.catalog.Lookup(c.Code)
		if !ok {
			return b.Fallback()
		}
		if cat.IsParent() {
			return b.submenu(cat)
		}
		return b.leaf(cat)
	default:
		return b.Fallback()
	}
}

// Fallback is the reply to input nothing else matched.
func (b *Builder) Fallback() Response {
	var sb strings.Builder
	sb.WriteString("🤔 I didn't catch that.\nSend:\n")
	for _, cat := range b.catalog.Top() {
		fmt.Fprintf(&sb, "• %s for %s\n", cat.Command(), cat.Title)
	}
	fmt.Fprintf(&sb, "Or a symptom number %d–%d.", b.catalog.Numeric.Min, b.catalog.Numeric.Max)
	return Response{Kind: TextResponse, Body: sb.String()}
}

// AdviceText is the full text of a leaf: title, instructions, caution and
// the navigation hint.
func AdviceText(cat Category) string {
	lines := make([]string, 0, len(cat.Advice)+4)
	lines = append(lines, cat.Title)
	lines = append(lines, cat.Advice...)
	if cat.Caution != "" {
		lines = append(lines, cat.Caution)
	}
	lines = append(lines, "", NavigationHint)
	return strings.Join(lines, "\n")
}

func (b *Builder) greeting(name string) Response {
	header := "👋 Welcome to " + b.catalog.Name
	body := "Please choose one of the following options:"
	if name = strings.TrimSpace(name); name != "" {
		body = fmt.Sprintf("Hi %s! %s", name, body)
	}
	top := b.catalog.Top()

	switch {
	case b.style == StyleText:
		return Response{Kind: TextResponse, Body: header + "\n" + body + "\n" + b.textOptions(top)}
	case b.style == StyleButtons && len(top) <= maxButtons:
		buttons := make([]ButtonOption, len(top))
		for i, cat := range top {
			buttons[i] = ButtonOption{ID: cat.ID(), Title: cat.Title}
		}
		return Response{Kind: ButtonResponse, Header: header, Body: body, Buttons: buttons}
	default:
		return Response{
			Kind:   ListResponse,
			Header: header,
			Body:   body,
			List: &ListOption{
				ButtonText: "View Options",
				Sections:   []ListSection{{Title: "Main Menu", Rows: rows(top)}},
			},
		}
	}
}

func (b *Builder) submenu(cat Category) Response {
	children := b.catalog.Children(cat)
	if b.style == StyleText {
		body := cat.Prompt.Header + "\n" + cat.Prompt.Body + "\n" + b.textOptions(children) + "\n\n" + NavigationHint
		return Response{Kind: TextResponse, Body: body}
	}
	return Response{
		Kind:   ListResponse,
		Header: cat.Prompt.Header,
		Body:   cat.Prompt.Body,
		List: &ListOption{
			ButtonText: cat.Prompt.ButtonText,
			Sections:   []ListSection{{Title: cat.Prompt.SectionTitle, Rows: rows(children)}},
		},
	}
}

func (b *Builder) leaf(cat Category) Response {
	text := AdviceText(cat)
	if b.style == StyleText {
		return Response{Kind: TextResponse, Body: text}
	}
	buttons := []ButtonOption{{ID: MenuID, Title: "🏠 Main Menu"}}
	if parent, ok := b.catalog.Parent(cat.Code); ok {
		buttons = append(buttons, ButtonOption{ID: parent.ID(), Title: parent.Title})
	}
	buttons = append(buttons, ButtonOption{ID: EmergencyID, Title: "🚑 Emergency"})
	return Response{Kind: ButtonResponse, Header: cat.Title, Body: text, Buttons: buttons}
}

// textOptions lists categories one per line, by number when they can be
// typed as one and by keyword otherwise.
func (b *Builder) textOptions(cats []Category) string {
	lines := make([]string, len(cats))
	for i, cat := range cats {
		if b.catalog.Numeric.Contains(cat.Code) {
			lines[i] = fmt.Sprintf("%d. %s", cat.Code, cat.Title)
		} else {
			lines[i] = fmt.Sprintf("• %s — send '%s'", cat.Title, cat.Command())
		}
	}
	return strings.Join(lines, "\n")
}

func rows(cats []Category) []ListRow {
	out := make([]ListRow, len(cats))
	for i, cat := range cats {
		out[i] = ListRow{ID: cat.ID(), Title: cat.Title, Description: cat.Description}
	}
	return out
}

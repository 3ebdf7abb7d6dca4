package menu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the outcome of classifying one inbound message.
type Kind int

const (
	Unrecognized Kind = iota
	Greeting
	Thanks
	Emergency
	NumericSelection
	KeywordCategory
	Selection
)

var kindNames = map[Kind]string{
	Unrecognized:     "unrecognized",
	Greeting:         "greeting",
	Thanks:           "thanks",
	Emergency:        "emergency",
	NumericSelection: "numeric",
	KeywordCategory:  "keyword",
	Selection:        "selection",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Classification is a tagged result. Code is set for the numeric, keyword
// and selection kinds; ID carries the raw selection id when there was one.
type Classification struct {
	Kind Kind
	Code int
	ID   string
}

// HasCode reports whether the classification points at a catalog entry.
func (c Classification) HasCode() bool {
	return c.Kind == NumericSelection || c.Kind == KeywordCategory || c.Kind == Selection
}

func (c Classification) String() string {
	if c.HasCode() {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Code)
	}
	return c.Kind.String()
}

// Navigation ids emitted on buttons that are not catalog entries.
const (
	MenuID      = "menu"
	EmergencyID = "emergency"
)

var (
	greetingWords  = wordSet("hi", "hello", "hey", "menu", "help", "start")
	thanksWords    = wordSet("thanks", "thank you", "ok", "okay")
	emergencyWords = wordSet("emergency", "urgent", "help!")

	numericPattern = regexp.MustCompile(`^(?:(?:option|opt|number|num|no|choice)\.?\s*)?#?\s*(\d{1,6})\s*[.)]?$`)
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Classifier maps normalized text and selection ids onto the catalog.
// It holds no mutable state.
type Classifier struct {
	catalog *Catalog
}

func NewClassifier(c *Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// Classify classifies normalized display text. The checks run in a fixed
// order: greeting, thanks, emergency, number, keyword.
func (c *Classifier) Classify(text string) Classification {
	if _, ok := greetingWords[text]; ok || text == "" {
		return Classification{Kind: Greeting}
	}
	if _, ok := thanksWords[text]; ok {
		return Classification{Kind: Thanks}
	}
	if _, ok := emergencyWords[text]; ok {
		return Classification{Kind: Emergency}
	}
	if n, ok := parseNumber(text); ok && c.catalog.Numeric.Contains(n) {
		return Classification{Kind: NumericSelection, Code: n}
	}
	if code, ok := c.matchKeyword(text); ok {
		return Classification{Kind: KeywordCategory, Code: code}
	}
	return Classification{Kind: Unrecognized}
}

// ClassifySelection classifies a button or list reply by its id alone.
// Titles are never consulted, so renaming a row cannot change routing.
func (c *Classifier) ClassifySelection(id string) Classification {
	id = strings.TrimSpace(id)
	switch id {
	case MenuID:
		return Classification{Kind: Greeting, ID: id}
	case EmergencyID:
		return Classification{Kind: Emergency, ID: id}
	}
	code, err := strconv.Atoi(id)
	if err != nil {
		return Classification{Kind: Unrecognized, ID: id}
	}
	if _, ok := c.catalog.Lookup(code); !ok {
		return Classification{Kind: Unrecognized, ID: id}
	}
	return Classification{Kind: Selection, Code: code, ID: id}
}

// matchKeyword returns the lowest category code with a keyword contained in
// text. "cold" belongs to both 4 and 6 and therefore always resolves to 4.
// Matching is by substring, not by word, so a short keyword also fires
// inside longer words ("flu" in "fluids"); keep keywords specific.
func (c *Classifier) matchKeyword(text string) (int, bool) {
	for _, cat := range c.catalog.Categories() {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				return cat.Code, true
			}
		}
	}
	return 0, false
}

func parseNumber(text string) (int, bool) {
	m := numericPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

package whatsapp

// Interactive message limits.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/reference/messages#interactive-object
const (
	MaxTextBodyLength        = 4096
	MaxInteractiveBodyLength = 1024
	MaxHeaderLength          = 60
	MaxButtons               = 3
	MaxButtonTitleLength     = 20
	MaxListButtonLength      = 20
	MaxListRows              = 10
	MaxSectionTitleLength    = 24
	MaxRowTitleLength        = 24
	MaxRowDescriptionLength  = 72
	MaxRowIDLength           = 200
)

// truncate cuts s to at most maxLen runes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

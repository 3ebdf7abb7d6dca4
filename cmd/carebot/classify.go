package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cityhospital/carebot/internal/bot"
	"github.com/cityhospital/carebot/internal/menu"
	"github.com/cityhospital/carebot/internal/whatsapp"
)

type classifyOutput struct {
	Input          string        `json:"input"`
	SelectionID    string        `json:"selection_id,omitempty"`
	Normalized     string        `json:"normalized"`
	Intent         string        `json:"intent"`
	Code           int           `json:"code,omitempty"`
	Classification string        `json:"classification"`
	Response       menu.Response `json:"response"`
}

func newClassifyCmd() *cobra.Command {
	var (
		selectionID string
		style       string
		name        string
	)

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Print the classification and reply for a message without sending it",
		Example: `  carebot classify "I have a fever"
  carebot classify 7 --style text
  carebot classify --id 301`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := menu.ParseStyle(style)
			if err != nil {
				return err
			}

			catalog := menu.DefaultCatalog()
			h := bot.NewHandler(menu.NewClassifier(catalog), menu.NewBuilder(catalog, st), nil)

			msg := whatsapp.Inbound{
				Kind:        whatsapp.KindText,
				Text:        strings.Join(args, " "),
				ProfileName: name,
			}
			if selectionID != "" {
				msg.Kind = whatsapp.KindInteractive
				msg.SelectionID = selectionID
			}

			c, resp := h.Resolve(msg)
			out := classifyOutput{
				Input:          msg.Text,
				SelectionID:    selectionID,
				Normalized:     menu.Normalize(msg.DisplayText()),
				Intent:         c.Kind.String(),
				Code:           c.Code,
				Classification: c.String(),
				Response:       resp,
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&selectionID, "id", "", "classify a button/list reply with this selection id")
	cmd.Flags().StringVar(&style, "style", string(menu.StyleList), "menu style: text, buttons or list")
	cmd.Flags().StringVar(&name, "name", "", "sender profile name used in the greeting")
	return cmd
}

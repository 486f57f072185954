package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// BriefingItem mirrors one structured item returned by the API.
type BriefingItem struct {
	ID             int    `json:"id"`
	MachineID      string `json:"machine_id"`
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Details        string `json:"details"`
	ActionRequired string `json:"action_required"`
}

// StructuredBriefing mirrors the structured document returned by the API.
type StructuredBriefing struct {
	Summary string         `json:"summary"`
	Items   []BriefingItem `json:"items"`
}

// Briefing mirrors a briefing resource returned by the API.
type Briefing struct {
	ID         string              `json:"id"`
	RawText    string              `json:"raw_text"`
	Structured *StructuredBriefing `json:"structured"`
	CreatedAt  string              `json:"created_at"`
	ShiftLabel string              `json:"shift_label,omitempty"`
	Author     string              `json:"author,omitempty"`
}

// SubmitCmd creates the submit command.
func SubmitCmd() *cobra.Command {
	var shiftLabel, author string

	cmd := &cobra.Command{
		Use:   "submit [text]",
		Short: "Submit a shift handoff briefing",
		Long:  "Submits raw shift handoff text for structuring. Reads from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawText := ""
			if len(args) == 1 {
				rawText = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				rawText = strings.TrimSpace(string(data))
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSubmit(cmd, rawText, shiftLabel, author, outputJSON)
		},
	}

	cmd.Flags().StringVar(&shiftLabel, "shift", "", "Shift label (e.g. 'night')")
	cmd.Flags().StringVar(&author, "author", "", "Author of the handoff")

	return cmd
}

func runSubmit(cmd *cobra.Command, rawText, shiftLabel, author string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/briefings", map[string]string{
		"raw_text":    rawText,
		"shift_label": shiftLabel,
		"author":      author,
	})
	if err != nil {
		return fmt.Errorf("failed to submit briefing: %w", err)
	}

	var briefing Briefing
	if err := json.Unmarshal(resp.Data, &briefing); err != nil {
		return fmt.Errorf("failed to parse briefing: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(briefing, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Briefing %s created\n", briefing.ID)
	if briefing.Structured != nil {
		fmt.Println(briefing.Structured.Summary)
		for _, item := range briefing.Structured.Items {
			fmt.Printf("  [%s/%s] %s (%s)\n", item.Category, item.Severity, item.Title, item.MachineID)
		}
	}

	return nil
}

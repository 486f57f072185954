package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// ListBriefingsResponse mirrors the list endpoint response.
type ListBriefingsResponse struct {
	Briefings []Briefing `json:"briefings"`
	Cursor    string     `json:"cursor,omitempty"`
	HasMore   bool       `json:"has_more"`
}

// BriefingsCmd creates the briefings command.
func BriefingsCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "briefings [id]",
		Short: "List briefings or show one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			if len(args) == 1 {
				return runGetBriefing(cmd, args[0], outputJSON)
			}
			return runListBriefings(cmd, limit, cursor, outputJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of briefings to list")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")

	return cmd
}

func runListBriefings(cmd *cobra.Command, limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	path := "/api/briefings"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("failed to list briefings: %w", err)
	}

	var list ListBriefingsResponse
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		return fmt.Errorf("failed to parse briefings: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	for _, b := range list.Briefings {
		items := 0
		if b.Structured != nil {
			items = len(b.Structured.Items)
		}
		fmt.Printf("%s  %s  %d items", b.ID, b.CreatedAt, items)
		if b.ShiftLabel != "" {
			fmt.Printf("  [%s]", b.ShiftLabel)
		}
		fmt.Println()
	}
	if list.HasMore {
		fmt.Printf("More available, continue with --cursor %s\n", list.Cursor)
	}

	return nil
}

func runGetBriefing(cmd *cobra.Command, id string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get(fmt.Sprintf("/api/briefings/%s", id))
	if err != nil {
		return fmt.Errorf("failed to get briefing: %w", err)
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

	fmt.Printf("ID: %s\n", briefing.ID)
	fmt.Printf("Created: %s\n", briefing.CreatedAt)
	if briefing.ShiftLabel != "" {
		fmt.Printf("Shift: %s\n", briefing.ShiftLabel)
	}
	if briefing.Author != "" {
		fmt.Printf("Author: %s\n", briefing.Author)
	}
	if briefing.Structured != nil {
		fmt.Println()
		fmt.Println(briefing.Structured.Summary)
		for _, item := range briefing.Structured.Items {
			fmt.Printf("  %d. [%s/%s] %s\n", item.ID, item.Category, item.Severity, item.Title)
			fmt.Printf("     Machine: %s\n", item.MachineID)
			fmt.Printf("     Action: %s\n", item.ActionRequired)
		}
	}

	return nil
}

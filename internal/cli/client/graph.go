package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// KnowledgeEntry mirrors a knowledge graph entry returned by the API.
type KnowledgeEntry struct {
	ID              int64  `json:"id"`
	MachineID       string `json:"machine_id"`
	IssueType       string `json:"issue_type"`
	Description     string `json:"description"`
	Severity        string `json:"severity"`
	FirstSeen       string `json:"first_seen"`
	LastSeen        string `json:"last_seen"`
	OccurrenceCount int    `json:"occurrence_count"`
}

// GraphResponse mirrors the knowledge graph endpoint response.
type GraphResponse struct {
	Entries []KnowledgeEntry `json:"entries"`
	Total   int              `json:"total"`
}

// GraphCmd creates the graph command.
func GraphCmd() *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the recurring-issue knowledge graph",
		Long:  "Lists aggregated recurring issues, most frequent first. With --query, runs semantic search instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGraph(cmd, query, limit, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Semantic search query")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results for semantic search")

	return cmd
}

func runGraph(cmd *cobra.Command, query string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := "/api/knowledge-graph"
	if query != "" {
		values := url.Values{}
		values.Set("q", query)
		values.Set("limit", strconv.Itoa(limit))
		path = "/api/knowledge-graph/similar?" + values.Encode()
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("failed to fetch knowledge graph: %w", err)
	}

	var graph GraphResponse
	if err := json.Unmarshal(resp.Data, &graph); err != nil {
		return fmt.Errorf("failed to parse knowledge graph: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(graph.Entries, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	for _, e := range graph.Entries {
		fmt.Printf("%3dx  [%s/%s] %s - %s (last seen %s)\n",
			e.OccurrenceCount, e.IssueType, e.Severity, e.MachineID, e.Description, e.LastSeen)
	}

	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

var (
	memType  string
	memLimit int
	memQuery string
)

func init() {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "List remembered exchanges, newest first",
		Run:   runMemories,
	}

	cmd.Flags().StringVarP(&memType, "type", "t", "", "Filter by type: conversation, experience, learning, emotional_response")
	cmd.Flags().IntVarP(&memLimit, "limit", "l", 20, "Max results")
	cmd.Flags().StringVarP(&memQuery, "query", "q", "", "Only memories containing this text (case-insensitive)")

	RootCmd.AddCommand(cmd)
}

func runMemories(cmd *cobra.Command, args []string) {
	if memType != "" && !model.ValidMemoryTypes[model.MemoryType(memType)] {
		exitErr("memories", fmt.Errorf("unknown memory type %q", memType))
	}

	s := mustSession(cmd)
	defer s.Close()

	recs := s.engine.SearchMemories(emotion.SearchParams{
		Query: memQuery,
		Type:  model.MemoryType(memType),
		Limit: memLimit,
	})

	out := cmd.OutOrStdout()
	if jsonOutput() {
		if recs == nil {
			recs = []model.MemoryRecord{}
		}
		printJSON(out, recs)
		return
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "no memories")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s  %-12s %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Type, r.Content)
	}
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current emotions and counters",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	s := mustSession(cmd)
	defer s.Close()

	st := s.engine.Status()
	if jsonOutput() {
		printJSON(cmd.OutOrStdout(), st)
		return
	}
	printStatus(cmd.OutOrStdout(), st)
}

func printStatus(w io.Writer, st emotion.Status) {
	fmt.Fprintf(w, "Feeling mostly %s (%.1f)\n", st.Dominant.Name, st.Dominant.Value)
	for _, l := range st.Emotions.Levels() {
		fmt.Fprintf(w, "  %-13s %5.1f\n", l.Name, l.Value)
	}
	fmt.Fprintf(w, "%d conversations, %d memories\n", st.ConversationCount, st.MemoryCount)
}

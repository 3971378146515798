package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full state as JSON",
		Long:  "Export emotions, memories and the conversation count as one JSON document. Write to a file with -o.",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	s := mustSession(cmd)
	defer s.Close()

	snap := s.engine.Export()

	if output == "" {
		printJSON(cmd.OutOrStdout(), snap)
		return
	}
	f, err := os.Create(output)
	if err != nil {
		exitErr("export", err)
	}
	defer f.Close()
	printJSON(f, snap)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the state with an exported JSON document",
		Long:  "Read a document produced by export from a file, or from stdin when no file is given, and make it the current state.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		r = f
	}

	var snap emotion.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		exitErr("parse snapshot", err)
	}

	s := mustSession(cmd)
	defer s.Close()

	if err := s.engine.Import(cmd.Context(), snap); err != nil {
		exitErr("import", err)
	}

	st := s.engine.Status()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d memories, %d conversations\n", st.MemoryCount, st.ConversationCount)
}

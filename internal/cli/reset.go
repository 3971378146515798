package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget everything and restore default emotions",
		Run:   runReset,
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		exitErr("reset", fmt.Errorf("this erases all memories; pass --yes to confirm"))
	}

	s := mustSession(cmd)
	defer s.Close()

	if err := s.engine.Reset(cmd.Context()); err != nil {
		exitErr("reset", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Reset to defaults")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	kv, err := openStore(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer kv.Close()

	var st *store.Stats
	if sq, ok := kv.(*store.SQLite); ok {
		st, err = sq.Stats(ctx)
		if err != nil {
			exitErr("stats", err)
		}
	} else {
		st = &store.Stats{Backend: cfg.Backend, DBPath: cfg.DBPath}
		for _, key := range []string{emotion.KeyEmotions, emotion.KeyMemories, emotion.KeyConversationCount} {
			v, found, err := kv.Get(ctx, key)
			if err != nil {
				exitErr("stats", err)
			}
			if !found {
				continue
			}
			st.TotalKeys++
			st.Keys = append(st.Keys, store.KeyStats{Key: key, Bytes: len(v)})
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		printJSON(out, st)
		return
	}
	fmt.Fprintf(out, "backend: %s\n", st.Backend)
	if st.DBPath != "" {
		fmt.Fprintf(out, "path:    %s\n", st.DBPath)
	}
	if st.DBSizeBytes > 0 {
		fmt.Fprintf(out, "size:    %d bytes\n", st.DBSizeBytes)
	}
	fmt.Fprintf(out, "keys:    %d\n", st.TotalKeys)
	for _, k := range st.Keys {
		fmt.Fprintf(out, "  %-20s %8d bytes\n", k.Key, k.Bytes)
	}
}

// Package cli implements the wight CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/config"
	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/store"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	backendFlag string
	dbPath      string
	dsnFlag     string
	formatFlag  string
	envFile     string

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:     "wight",
	Short:   "A keyword-driven companion with moods and memories",
	Long:    "Chat with a small companion whose ten emotions shift with what you say and fade over time. State persists between runs.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		c, err := config.Load(files...)
		if err != nil {
			return err
		}
		if backendFlag != "" {
			c.Backend = backendFlag
			if dbPath == "" && os.Getenv("WIGHT_DB") == "" {
				c.DBPath = config.DefaultDBPath(c.Backend)
			}
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		if dsnFlag != "" {
			c.DSN = dsnFlag
		}
		cfg = c

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Storage backend: sqlite, badger, file, postgres, memory (default: $WIGHT_BACKEND or sqlite)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $WIGHT_DB or ~/.wight/...)")
	RootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Postgres connection string (default: $WIGHT_DSN)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this file instead of ./.env")
}

func openStore(ctx context.Context) (store.KV, error) {
	return store.Open(ctx, store.Options{
		Backend: cfg.Backend,
		Path:    cfg.DBPath,
		DSN:     cfg.DSN,
	})
}

// session is an open store plus the engine restored from it.
type session struct {
	kv     store.KV
	engine *emotion.Engine
}

func openSession(ctx context.Context) (*session, error) {
	kv, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	e := emotion.New(ctx, kv, emotion.Options{
		MaxMemories: cfg.MaxMemories,
		Decay: emotion.DecayConfig{
			Interval:    cfg.DecayInterval,
			Probability: cfg.DecayProbability,
		},
		Logger: slog.Default(),
	})
	return &session{kv: kv, engine: e}, nil
}

func (s *session) Close() error {
	s.engine.Close()
	return s.kv.Close()
}

func mustSession(cmd *cobra.Command) *session {
	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

func jsonOutput() bool {
	return formatFlag == "json"
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

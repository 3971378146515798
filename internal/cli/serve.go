package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/httpapi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $WIGHT_ADDR or :8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := mustSession(cmd)
	defer s.Close()

	srv := httpapi.New(s.engine, httpapi.Options{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Logger:    slog.Default(),
	})
	defer srv.Close()

	s.engine.Start(ctx)

	if err := srv.Run(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}

package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Chat interactively",
		Long:  "Chat line by line. Emotions keep fading in the background while the session is open. Type /status for the current mood, /quit to leave.",
		Run:   runRepl,
	}

	RootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s := mustSession(cmd)
	defer s.Close()

	s.engine.Subscribe(emotion.ObserverFuncs{
		OnEmotionChange: func(st model.EmotionState) {
			d := st.Dominant()
			slog.Debug("emotions changed", "dominant", d.Name, "value", d.Value)
		},
		OnResponse: func(reply string) {
			fmt.Fprintf(out, "wight: %s\n", reply)
		},
	})
	s.engine.Start(ctx)

	fmt.Fprintf(out, "Connected. %d memories, %d conversations so far.\n",
		len(s.engine.Memories()), s.engine.ConversationCount())

	sc := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/status":
			printStatus(out, s.engine.Status())
			continue
		}
		s.engine.ProcessMessage(ctx, line)
	}
	if err := sc.Err(); err != nil {
		exitErr("read input", err)
	}
}

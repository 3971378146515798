package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/emotion"
	"github.com/rcliao/wight/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message and print the reply",
		Long:  "Send one message. The message can be a positional arg or piped via stdin.",
		Run:   runChat,
	}

	RootCmd.AddCommand(cmd)
}

type chatResult struct {
	Response string             `json:"response"`
	Category string             `json:"category"`
	Emotions model.EmotionState `json:"emotions"`
}

func runChat(cmd *cobra.Command, args []string) {
	// Get content: positional arg first, then check stdin
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); !ok || isPipe(f) {
			b, err := io.ReadAll(in)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		exitErr("chat", fmt.Errorf("message is required (positional arg or stdin)"))
	}

	s := mustSession(cmd)
	defer s.Close()

	reply, state := s.engine.Respond(cmd.Context(), text)

	if jsonOutput() {
		printJSON(cmd.OutOrStdout(), chatResult{
			Response: reply,
			Category: string(emotion.Classify(text)),
			Emotions: state,
		})
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
}

func isPipe(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

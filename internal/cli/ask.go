package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"csvinsights/internal/config"
	"csvinsights/internal/llm"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask FILE QUESTION...",
		Short: "Answer a question about a CSV file with the configured language model",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args[1:], " "))
			if question == "" {
				return fmt.Errorf("question cannot be empty")
			}

			report, err := loadReport(args[0], opts)
			if err != nil {
				return err
			}

			ai, err := config.DefaultAIConfig()
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt)
			defer stop()

			answer := llm.NewAnswerer(llm.New(ai), ai.RetryDelays).Answer(ctx, question, report.Profile)
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

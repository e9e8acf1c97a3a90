// Package cli wires configuration, providers and surfaces into cobra commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/gemchat/internal/config"
	"github.com/satriahrh/gemchat/internal/console"
	"github.com/satriahrh/gemchat/usecase"
)

type RootCommand struct {
	CobraCommand *cobra.Command
}

// NewRootCommand creates the gemchat command. Run without a subcommand it
// starts an interactive chat on the terminal.
func NewRootCommand() *RootCommand {
	cmd := &cobra.Command{
		Use:   "gemchat",
		Short: "Chat with Gemini from the terminal or the browser",
		Long: `gemchat is a thin chat client for hosted language models.

Run it without arguments for an interactive terminal conversation, or use
"gemchat serve" to host the browser chat widget. Settings come from the
environment and an optional .env file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	cmd.AddCommand(NewServeCommand().CobraCommand)
	cmd.AddCommand(NewTokenCommand().CobraCommand)

	return &RootCommand{
		CobraCommand: cmd,
	}
}

// runChat runs one terminal conversation until the user exits
func runChat(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, zapcore.WarnLevel, "console")
	if err != nil {
		return err
	}
	defer logger.Sync()

	model, err := newLargeLanguageModel(cfg, logger)
	if err != nil {
		return err
	}

	manager := usecase.NewSessionManager(model, cfg.RequestTimeout, logger)
	loop := usecase.NewLoop(manager, logger)

	return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), loop, logger).Run(cmd.Context())
}

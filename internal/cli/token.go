package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satriahrh/gemchat/internal/auth"
	"github.com/satriahrh/gemchat/internal/config"
)

type TokenCommand struct {
	CobraCommand *cobra.Command
}

func NewTokenCommand() *TokenCommand {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token [name]",
		Short: "Mint an access token for the chat widget",
		Long: `Mint a token signed with CHAT_ACCESS_SECRET. Open the widget with
?token=<token> appended to its URL. The optional name shows up in server logs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.AccessSecret == "" {
				return errors.New("CHAT_ACCESS_SECRET is not set; the widget is open and needs no token")
			}

			issuer, err := auth.NewTokenIssuer(cfg.AccessSecret)
			if err != nil {
				return err
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			}

			token, err := issuer.GenerateClientToken(name, ttl)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")

	return &TokenCommand{
		CobraCommand: cmd,
	}
}

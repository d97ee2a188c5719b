package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token [telegram-user-id]",
	Short: "Issue a marketer JWT for a Telegram user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("invalid telegram user id %q", args[0])
		}

		cfg, _, sync := setup()
		defer sync()

		token, err := newJWTService(cfg).GenerateToken(userID)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

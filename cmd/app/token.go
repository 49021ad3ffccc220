package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"payflow/internal/config"
	"payflow/pkg/utils"
)

// tokenCmd mints a bearer token for local testing of the payment-method routes.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token using JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			userID, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := utils.CreateToken([]byte(cfg.JWTSecret), userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringP("user", "u", "", "User id placed in the subject claim")
	cmd.Flags().StringP("role", "r", "user", "Role claim (user, admin)")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

package main

import (
	"fmt"

	"github.com/jonathan/call-scorer/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the REST API",
	Long:  "Sign a bearer token with the configured JWT secret for calling the protected API endpoints.",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Client or user the token is issued to")
	_ = tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		return fmt.Errorf("JWT secret is required (set CALL_SCORER_JWT_SECRET or jwt_secret in the config file)")
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

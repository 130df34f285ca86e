package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "algowatch/internal/jwt_token"
	id "algowatch/pkg/domain"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Mint a bearer token signed with the configured JWT key. Without --user
a fresh user id is generated.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		user := id.UserID(uuid.New())
		if tokenUser != "" {
			if user, err = id.ParseUserID(tokenUser); err != nil {
				return err
			}
		}

		jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
		token, err := jwt.GenerateAccessToken(user, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "user %s\n", user)
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (UUID) to embed as the subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quran-bff/internal/adapters/driven/auth"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/postgres"
	"github.com/custodia-labs/quran-bff/internal/config"
	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/services"
)

var (
	createUserEmail    string
	createUserPassword string
	createUserName     string
)

var createUserCmd = &cobra.Command{
	Use:     "create-user",
	Short:   "Create a local account",
	Example: `  quran-bff create-user --email reader@example.com --password 'long-password' --name Reader`,
	Args:    cobra.NoArgs,
	RunE:    runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&createUserEmail, "email", "", "account email (required)")
	createUserCmd.Flags().StringVar(&createUserPassword, "password", "", "password, at least 8 characters (required)")
	createUserCmd.Flags().StringVar(&createUserName, "name", "", "display name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	users := services.NewUserService(postgres.NewUserStore(db), auth.NewAdapter(cfg.JWTSecret))
	user, err := users.Register(ctx, domain.RegisterRequest{
		Email:    createUserEmail,
		Password: createUserPassword,
		Name:     createUserName,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		return fmt.Errorf("a user with email %s already exists", createUserEmail)
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("a valid email and a password of at least 8 characters are required")
	case err != nil:
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID, user.Email)
	return nil
}

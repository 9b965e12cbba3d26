// Package cli implements photoctl, the operator tool for schema migration,
// seeding and account maintenance.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/repository"
)

var rootCmd = &cobra.Command{
	Use:          "photoctl",
	Short:        "Operator commands for the photoshare service",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects using the same configuration as the API server and makes
// sure the schema is current.
func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.Quiet(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDB(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var seedOpts SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account, demo accounts and starter tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		res, err := Seed(context.Background(), repository.NewUserRepository(db), repository.NewTagRepository(db), seedOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seed completed: users=%d tags=%d\n", res.Users, res.Tags)
		return nil
	},
}

var (
	assignEmail string
	assignRole  string
)

var assignRoleCmd = &cobra.Command{
	Use:   "assign-role",
	Short: "Change a user's role",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		u, changed, err := AssignRole(context.Background(), repository.NewUserRepository(db), assignEmail, assignRole)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already has role %s\n", u.Email, u.Role)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
		return nil
	},
}

var revokeEmail string

var revokeTokensCmd = &cobra.Command{
	Use:   "revoke-tokens",
	Short: "Clear stored refresh tokens for one user, or for everyone",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		n, err := repository.NewUserRepository(db).ClearRefreshTokens(context.Background(), revokeEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked refresh tokens: %d\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", "admin@photoshare.local", "admin account email")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", "admin123", "admin account password")
	seedCmd.Flags().BoolVar(&seedOpts.Demo, "demo", true, "also create demo user and moderator accounts and starter tags")

	assignRoleCmd.Flags().StringVar(&assignEmail, "email", "", "user email")
	assignRoleCmd.Flags().StringVar(&assignRole, "role", "", "guest, user, moderator or admin")
	_ = assignRoleCmd.MarkFlagRequired("email")
	_ = assignRoleCmd.MarkFlagRequired("role")

	revokeTokensCmd.Flags().StringVar(&revokeEmail, "email", "", "only this user (default: everyone)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(assignRoleCmd)
	rootCmd.AddCommand(revokeTokensCmd)
}

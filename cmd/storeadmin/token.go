package main

import (
	"errors"
	"fmt"

	"storeadmin/internal/repos"
	"storeadmin/internal/services"

	"github.com/spf13/cobra"
)

var tokenUser string

// tokenCmd mints an identity token for scripting against the API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an identity token for a user",
	Long: `Prints a signed identity token for --user, usable as
"Authorization: Bearer <token>" against the /api routes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUser == "" {
			return errors.New("--user is required")
		}
		db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		users := repos.NewUserRepo(db)
		if _, err := users.ByID(cmd.Context(), tokenUser); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return fmt.Errorf("unknown user %q", tokenUser)
			}
			return err
		}
		tok, err := services.NewAuthService(users, cfg.AuthSecret, cfg.AuthIssuer, cfg.TokenTTL).Issue(tokenUser)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id the token is issued for")
}

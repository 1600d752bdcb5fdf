package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/gradescope-sync/internal/gcal"
	"github.com/pfrederiksen/gradescope-sync/internal/gradescope"
	"github.com/pfrederiksen/gradescope-sync/internal/logger"
	"github.com/pfrederiksen/gradescope-sync/internal/syncer"
	"github.com/pfrederiksen/gradescope-sync/internal/tokencache"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Environment contract. The two Gradescope variables are required; the
// Google token is optional when a cached token.json already exists.
const (
	EnvEmail           = "GRADESCOPE_EMAIL"
	EnvPassword        = "GRADESCOPE_PASSWORD"
	EnvGoogleToken     = "GOOGLE_TOKEN"
	EnvTokenPassphrase = "GOOGLE_TOKEN_PASSPHRASE"
)

// TokenPath is the on-disk authorization cache, kept next to the binary
// the way the setup tooling writes it.
const TokenPath = "token.json"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gradescope-sync",
		Short: "Sync Gradescope assignment due dates to Google Calendar",
		Long: `Sync assignments from Gradescope to Google Calendar.

Each assignment becomes one calendar event, created on first sight and
updated in place when its due date changes. Configuration is read from
the environment: GRADESCOPE_EMAIL and GRADESCOPE_PASSWORD are required,
GOOGLE_TOKEN optionally carries a base64 token.json for headless runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSync,
	}
}

// runSync validates configuration, wires the pipeline, and runs it.
// All configuration failures happen here, before any network activity.
func runSync(cmd *cobra.Command, args []string) error {
	email := os.Getenv(EnvEmail)
	password := os.Getenv(EnvPassword)
	if email == "" || password == "" {
		return fmt.Errorf("missing Gradescope credentials: set %s and %s", EnvEmail, EnvPassword)
	}

	cache, err := tokencache.New(TokenPath, os.Getenv(EnvTokenPassphrase))
	if err != nil {
		return err
	}
	switch {
	case os.Getenv(EnvGoogleToken) != "":
		if err := cache.Seed(os.Getenv(EnvGoogleToken)); err != nil {
			return err
		}
		fmt.Println("Google credentials loaded from environment.")
	case cache.Exists():
		fmt.Println("Using cached Google credentials.")
	default:
		return fmt.Errorf("no Google credentials found: set %s or provide %s", EnvGoogleToken, TokenPath)
	}

	ctx := cmd.Context()

	ts, err := gcal.TokenSource(ctx, cache)
	if err != nil {
		return err
	}
	api, err := gcal.NewService(ctx, ts)
	if err != nil {
		return err
	}
	rec, err := gcal.NewReconciler(api, gcal.DefaultCalendarID)
	if err != nil {
		return err
	}
	portal, err := gradescope.New()
	if err != nil {
		return err
	}

	summary, err := syncer.New(portal, rec, os.Stdout).Run(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("\nCreated: %d  Updated: %d  Skipped: %d\n", summary.Created, summary.Updated, summary.Skipped)
	fmt.Println("Sync completed successfully!")
	return nil
}

// Execute runs the CLI.
func Execute() {
	logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr))
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Sync failed - %v\n", err)
		os.Exit(ExitError)
	}
}

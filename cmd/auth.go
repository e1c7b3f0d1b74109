package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/config"
	"github.com/jfmyers9/scrobbler/internal/scrobbler"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Last.fm",
	Long: `Authenticate with Last.fm to enable scrobbling.

This command will guide you through the Last.fm authentication process:
1. You'll be prompted to enter your Last.fm API key and secret
2. A browser URL will be provided for you to authorize the application
3. After authorization, a session key will be saved to your config file

You can get API credentials from: https://www.last.fm/api/account/create`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app, args []string) error {
			return runAuth(ctx, cmd, a)
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}

const maxSessionAttempts = 3

func runAuth(ctx context.Context, cmd *cobra.Command, a *app) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	cfg := a.cfg

	fmt.Fprintln(out, "Last.fm Authentication")
	fmt.Fprintln(out, "======================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You can get API credentials from: https://www.last.fm/api/account/create")
	fmt.Fprintln(out)

	// Check if we already have credentials
	if cfg.LastFM.APIKey != "" && cfg.LastFM.APISecret != "" {
		fmt.Fprintf(out, "Found existing API credentials.\n")
		fmt.Fprintf(out, "API Key: %s\n", cfg.LastFM.APIKey)
		if !confirm(reader, out, "\nUse existing credentials? [Y/n]: ") {
			cfg.LastFM.APIKey = ""
			cfg.LastFM.APISecret = ""
		}
	}

	if cfg.LastFM.APIKey == "" {
		key, err := prompt(reader, out, "Enter your Last.fm API Key: ")
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.LastFM.APIKey = key
	}
	if cfg.LastFM.APISecret == "" {
		secret, err := prompt(reader, out, "Enter your Last.fm API Secret: ")
		if err != nil {
			return fmt.Errorf("failed to read API secret: %w", err)
		}
		cfg.LastFM.APISecret = secret
	}
	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return errors.New("API key and secret are required")
	}

	c, err := a.api()
	if err != nil {
		return err
	}
	client := scrobbler.New(c, a.logger)

	fmt.Fprintln(out, "\nGenerating authentication token...")
	token, authURL, err := client.BeginAuth(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nPlease visit this URL to authorize scrobbler:")
	fmt.Fprintf(out, "\n  %s\n\n", authURL)

	// Until the user approves, auth.getSession answers "unauthorized token"
	var session *lastfm.Session
	for attempt := 1; ; attempt++ {
		fmt.Fprintln(out, "After authorizing, press Enter to continue...")
		_, _ = reader.ReadString('\n')

		session, err = client.CompleteAuth(ctx, token)
		if err == nil {
			break
		}
		if !errors.Is(err, &lastfm.Error{Code: lastfm.ErrCodeUnauthorizedToken}) || attempt == maxSessionAttempts {
			return err
		}
		fmt.Fprintf(out, "The token is not authorized yet (attempt %d/%d).\n", attempt, maxSessionAttempts)
	}

	cfg.LastFM.SessionKey = session.Key
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Authenticated as %s\n", session.Username)
	fmt.Fprintf(out, "✓ Session key saved to %s/config.yaml\n", config.GetConfigDir())
	fmt.Fprintln(out, "\nQueued plays can now be submitted with 'scrobbler scrobble flush'.")
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func confirm(reader *bufio.Reader, out io.Writer, label string) bool {
	answer, err := prompt(reader, out, label)
	if err != nil {
		return true
	}
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y" || answer == "yes"
}

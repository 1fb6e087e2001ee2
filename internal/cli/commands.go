package cli

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"country-converter/internal/app"
	"country-converter/internal/cache"

	"github.com/spf13/cobra"
)

func newCountriesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "countries [filter]",
		Short: "List countries, optionally filtered by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return renderCountries(cmd.OutOrStdout(), s.app.Countries(cmd.Context(), filter))
		},
	}
}

func newConvertCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> [country...]",
		Short: "Convert an amount into the reference currency",
		Long: `Convert an amount given in each country's currencies into the reference
currency. With no countries listed, every country is shown.

Invalid or negative amounts are treated as 0.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := s.app.Converter(cmd.Context(), parseAmount(args[0]), args[1:])
			return renderConverter(cmd.OutOrStdout(), view)
		},
	}
}

func newWatchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <amount> [country...]",
		Short: "Convert and re-render whenever a rate changes on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			s.app.OnStateChange(func(key string, state cache.State) {
				if state == cache.StateLoading {
					loadingColor.Fprintf(cmd.ErrOrStderr(), "Refreshing %s...\n", key)
				}
			})
			err := s.app.Watch(ctx, parseAmount(args[0]), args[1:], func(view app.ConverterView) {
				fmt.Fprintln(out)
				_ = renderConverter(out, view)
			})
			return loginHint(err)
		},
	}
}

func newLoginCmd(s *session) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Long: `Log in and store the access token locally.

An unknown username is registered on first login. When --password is omitted
it is read from the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			claims, err := s.app.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if claims.ExpiresAt == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", claims.Username)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token valid until %s)\n",
				claims.Username, claims.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.app.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoAmICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			claims, err := s.app.WhoAmI(cmd.Context())
			if err != nil {
				return loginHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", claims.Username, claims.UserID)
			return nil
		},
	}
}

func loginHint(err error) error {
	if errors.Is(err, app.ErrNotLoggedIn) {
		return fmt.Errorf("%w; run 'country-converter login' first", err)
	}
	return err
}

// parseAmount never fails: unparsable input becomes NaN, which the converter
// turns into 0.
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Package cli provides the cobra commands of the country-converter client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"country-converter/internal/app"
	"country-converter/internal/config"
	"country-converter/internal/logger"
	"country-converter/internal/storage"

	"github.com/spf13/cobra"
)

// errReported marks errors whose message was already printed.
var errReported = errors.New("reported")

type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
func (e *reportedError) Is(target error) bool {
	return target == errReported
}

// session is the state shared by all subcommands of one invocation.
type session struct {
	configPath string
	apiURL     string
	logLevel   string

	app *app.App
	kv  storage.KV
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	if s.apiURL != "" {
		cfg.Client.APIURL = s.apiURL
	}
	if s.logLevel != "" {
		cfg.Logger.Level = s.logLevel
	}
	if err := cfg.ValidateClient(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.NewWithOutput(cfg.Logger.Level, cmd.ErrOrStderr())
	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	s.kv = kv
	s.app = app.New(cfg, kv, log)
	return nil
}

func (s *session) close() {
	if s.kv != nil {
		_ = s.kv.Close()
		s.kv = nil
	}
}

// NewRootCmd builds the client command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&session{})
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "country-converter",
		Short: "Browse countries and convert amounts into the reference currency",
		Long: `country-converter talks to the country-converter API.

Country data is cached locally for 24 hours and exchange rates for 60 seconds,
so repeated commands are served without a network round trip.

Log in first; every data command needs a valid access token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			s.close()
		},
	}

	root.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "path to a dotenv config file")
	root.PersistentFlags().StringVar(&s.apiURL, "api-url", "", "API base URL (overrides API_URL)")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newCountriesCmd(s),
		newConvertCmd(s),
		newLoginCmd(s),
		newLogoutCmd(s),
		newWhoAmICmd(s),
		newWatchCmd(s),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	s := &session{}
	defer s.close()

	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sealchat/internal/app"
	"sealchat/internal/domain"
)

// requestTimeout bounds every command except listen.
const requestTimeout = 30 * time.Second

var (
	home       string
	passphrase string
	appCtx     *app.Wire
	log        zerolog.Logger

	relayURL string
	username string
	storage  string
	logLevel string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "sealchat",
		Short:        "End-to-end encrypted chat CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sealchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("relay") {
				cfg.RelayURL = relayURL
			}
			if flags.Changed("storage") {
				cfg.Storage = storage
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if !flags.Changed("username") && username == "" {
				username = cfg.Username
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()

			appCtx, err = app.NewWire(cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.sealchat)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	pf.StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	pf.StringVar(&username, "username", "", "your username (defaults to the one registered with the relay)")
	pf.StringVar(&storage, "storage", "", "key storage backend: file or badger")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		registerCmd(),
		sendCmd(),
		recvCmd(),
		listenCmd(),
		historyCmd(),
		sessionCmd(),
	)
	return root.Execute()
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}

// localUser resolves --username, then the account registered with the
// configured relay, then the config file.
func localUser() (domain.Username, error) {
	if username != "" {
		return domain.Username(username), nil
	}
	profile, ok, err := appCtx.Accounts.LoadAccountProfile(appCtx.Config.RelayURL)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no username: pass --username or run register first")
	}
	return profile.Username, nil
}

// sessionContext unlocks the local keys for the resolved user.
func sessionContext() (*domain.SessionContext, error) {
	if err := requirePassphrase(); err != nil {
		return nil, err
	}
	me, err := localUser()
	if err != nil {
		return nil, err
	}
	return appCtx.SessionContext(passphrase, me)
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/client"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

type app struct {
	apiURL          string
	credentialsPath string
	verbose         bool

	api      *client.Client
	store    client.CredentialStore
	provider *client.AuthProvider
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan trips with the AI Trip Planner API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", envOr("TRIPCTL_API_URL", client.DefaultBaseURL), "API base URL")
	root.PersistentFlags().StringVar(&a.credentialsPath, "credentials", os.Getenv("TRIPCTL_CREDENTIALS"), "credentials file (defaults to the user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newOptionsCmd(a),
		newGenerateCmd(a),
		newTripsCmd(a),
		newPlacesCmd(a),
	)
	return root
}

func (a *app) init() error {
	if a.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = logger
	} else {
		a.logger = zap.NewNop()
	}

	path := a.credentialsPath
	if path == "" {
		p, err := client.DefaultCredentialsPath()
		if err != nil {
			return fmt.Errorf("locate credentials: %w", err)
		}
		path = p
	}
	a.store = client.NewFileStore(path)
	// Generation waits on the model; give it room beyond the server's AI timeout.
	a.api = client.New(a.apiURL, nil)
	a.logger.Debug("configured", zap.String("api", a.apiURL), zap.String("credentials", path))
	return nil
}

func (a *app) newProvider(source client.FederatedSource) *client.AuthProvider {
	a.provider = client.NewAuthProvider(a.api, source, a.store)
	a.provider.Subscribe(func(u *domain.User) {
		if u == nil {
			a.logger.Debug("auth state changed", zap.String("state", "signed_out"))
			return
		}
		a.logger.Debug("auth state changed", zap.String("state", "signed_in"), zap.String("email", u.Email))
	})
	return a.provider
}

// requireUser resolves the stored session and fails when nobody is signed in.
// Commands that touch trips only run after this returns.
func (a *app) requireUser(ctx context.Context) (*domain.User, error) {
	p := a.newProvider(client.StaticSource{})
	if err := p.Resolve(ctx); err != nil {
		a.logger.Debug("restore session failed", zap.Error(err))
	}
	select {
	case <-p.Ready():
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(30 * time.Second):
		return nil, errors.New("timed out restoring session")
	}
	user := p.CurrentUser()
	if user == nil {
		return nil, errors.New("not signed in, run `tripctl login` first")
	}
	return user, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// describeError turns API failures into the messages a user can act on.
func describeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return fmt.Errorf("daily limit reached: %w", err)
	case errors.Is(err, domain.ErrGenerationInProgress):
		return errors.New("a trip is already being generated for this account, try again shortly")
	case errors.Is(err, domain.ErrAuth):
		return fmt.Errorf("session rejected, run `tripctl login`: %w", err)
	default:
		return err
	}
}

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mauandrade99/gerenciador-cli/internal/api"
	"github.com/mauandrade99/gerenciador-cli/internal/cep"
	"github.com/mauandrade99/gerenciador-cli/internal/cli"
	"github.com/mauandrade99/gerenciador-cli/internal/config"
	"github.com/mauandrade99/gerenciador-cli/internal/service"
	"github.com/mauandrade99/gerenciador-cli/internal/session"
	"github.com/mauandrade99/gerenciador-cli/internal/store"
)

type App struct {
	cfg     *config.Config
	session *session.Manager
	cli     *cli.CLI
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return build(cfg, os.Stdin, os.Stdout), nil
}

// build wires every component explicitly; nothing holds global state.
// The API client reads its bearer token from the session manager, which
// is constructed right after it, so the token source closes over a late
// bound pointer.
func build(cfg *config.Config, in io.Reader, out io.Writer) *App {
	log := slog.Default()

	tokenStore := store.New(cfg.TokenFile)

	var sess *session.Manager
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, api.TokenFunc(func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	}), log)

	sess = session.NewManager(client, tokenStore, log)

	cepClient := cep.New(cfg.ViaCEPURL, cfg.HTTPTimeout, cfg.ViaCEPRPM)

	authService := service.NewAuthService(client, sess, log)
	userService := service.NewUserService(client, sess, log)
	addressService := service.NewAddressService(client, cepClient, sess, log)

	commands := cli.New(sess, authService, userService, addressService, cfg.PageSize, in, out)

	return &App{
		cfg:     cfg,
		session: sess,
		cli:     commands,
	}
}

// Run restores the session before dispatching, so commands never observe
// the booting state.
func (a *App) Run(ctx context.Context, args []string) error {
	a.session.Initialize(ctx)
	return a.cli.Run(ctx, args)
}

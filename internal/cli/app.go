// Package cli implements the interactive ChargeKeeper shell: a thin surface
// over the auth and schedule services. It collects input, calls services, and
// prints results; all validation and persistence rules live below it.
package cli

import (
	"bufio"
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/config"
	"github.com/ddanilovs/chargekeeper/internal/logging"
	"github.com/ddanilovs/chargekeeper/internal/models"
	"github.com/ddanilovs/chargekeeper/internal/services"
	"github.com/ddanilovs/chargekeeper/internal/storage"
)

type App struct {
	config          *config.Config
	store           *storage.Store
	authService     services.AuthService
	scheduleService services.ScheduleService
	user            *models.User
	reader          *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	// Structured logs go to stderr so prompts on stdout stay readable.
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	store, err := storage.Open(ctx, c.DatabaseDSN, logger)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	as := services.NewAuthService(store.Users, store.Metadata, []byte(c.SecretKey), c.SessionTokenValidity)
	ss := services.NewScheduleService(store.Schedules, logger)

	return &App{
		config:          c,
		store:           store,
		authService:     as,
		scheduleService: ss,
		reader:          bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.store.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
	}()

	a.restoreSession(ctx)
	a.Root(ctx)
}

// restoreSession rehydrates the previous login, if a valid token is stored.
func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			log.Printf("error restoring session: %v", err)
		}
		return
	}
	a.user = user
	log.Printf("Welcome back, %s!", user.UserName)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	_ "github.com/atom-shop/identity-service/docs"
	"github.com/atom-shop/identity-service/internal/api"
	"github.com/atom-shop/identity-service/internal/core/service"
	"github.com/atom-shop/identity-service/internal/infrastructure/mail"
	"github.com/atom-shop/identity-service/pkg/logger"
)

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the identity HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		if seedOnStart {
			if _, err := service.NewSeeder(st.permissions, st.roles, logger.Component("seed")).Run(ctx); err != nil {
				return err
			}
		}

		hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
		tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		resolver := service.NewPermissionResolver(st.roles, st.permissions, st.cache, logger.Component("permissions"))
		authService, err := service.NewAuthService(st.users, resolver, hasher, tokens, logger.Component("auth"))
		if err != nil {
			return err
		}
		notifier := mail.NewSMTPNotifier(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			StartTLS: cfg.SMTP.StartTLS,
			Timeout:  cfg.SMTP.Timeout,
		}, logger.Component("mail"))

		e := api.NewRouter(api.Deps{
			Auth:        authService,
			Users:       service.NewUserService(st.users, st.roles, resolver, hasher, logger.Component("users")),
			Roles:       service.NewRoleService(st.roles, st.users, resolver, logger.Component("roles")),
			Permissions: service.NewPermissionService(st.permissions, resolver),
			Resets: service.NewResetService(st.users, st.resets, notifier, hasher, service.ResetConfig{
				LinkBase: cfg.Reset.LinkBase,
				TokenTTL: cfg.Reset.TokenTTL,
			}, logger.Component("reset")),
			Readiness: st.pingers,
			Log:       logger.Component("http"),
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("port", cfg.Port).Msg("identity service listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "create built-in permissions and roles before serving")
}

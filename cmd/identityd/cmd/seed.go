package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/core/service"
	"github.com/atom-shop/identity-service/pkg/logger"
)

var admin struct {
	username string
	email    string
	password string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create built-in permissions, protected roles and an optional admin account",
	Long: `seed creates the built-in permissions and the USER, MODERATOR and ADMIN
roles when they are missing. With --admin-username it also registers an ADMIN
account unless one with that username already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStores(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		report, err := service.NewSeeder(st.permissions, st.roles, logger.Component("seed")).Run(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("permissions created: %d, roles created: %d\n", len(report.Permissions), len(report.Roles))

		if admin.username == "" {
			return nil
		}
		return seedAdmin(cmd, st)
	},
}

func seedAdmin(cmd *cobra.Command, st *stores) error {
	ctx := cmd.Context()
	resolver := service.NewPermissionResolver(st.roles, st.permissions, st.cache, logger.Component("permissions"))
	users := service.NewUserService(st.users, st.roles, resolver,
		service.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("users"))

	_, err := users.Provision(ctx, ports.UserInput{
		FirstName: "Admin",
		LastName:  "Account",
		Username:  admin.username,
		Email:     admin.email,
		Password:  admin.password,
		RoleName:  domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrConflict) {
		cmd.Printf("admin account %q already exists\n", admin.username)
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf("admin account %q created\n", admin.username)
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&admin.username, "admin-username", "", "username of the ADMIN account to create")
	seedCmd.Flags().StringVar(&admin.email, "admin-email", "", "email of the ADMIN account")
	seedCmd.Flags().StringVar(&admin.password, "admin-password", "", "password of the ADMIN account")
	seedCmd.MarkFlagsRequiredTogether("admin-username", "admin-email", "admin-password")
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/httpform"
	"github.com/goliatone/go-formguard/pkg/prompt"
	"github.com/goliatone/go-formguard/pkg/registration"
)

func (a *app) newRegisterCmd() *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Fill in the registration form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger := a.logger(cfg, cmd.ErrOrStderr())

			st, closeStore, err := a.openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			session, err := prompt.NewSession(cfg, st, prompt.NewSurveyDriver(cmd.OutOrStdout()),
				prompt.WithMaxAttempts(attempts),
				prompt.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			ctx := ctxlog.WithLogger(cmd.Context(), logger)
			result, err := session.Run(ctx)
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
			if result.Outcome == engine.OutcomeRegistered {
				logger.Info("registered", "email", result.Email, "attempts", result.Attempts)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", prompt.DefaultMaxAttempts, "submit rounds before giving up")
	return cmd
}

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger := a.logger(cfg, cmd.ErrOrStderr())

			st, closeStore, err := a.openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			srv, err := httpform.New(cfg, st, httpform.WithLogger(logger))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	_ = a.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered emails",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			st, closeStore, err := a.openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			wf := registration.New(st, append(cfg.RegistrationOptions(),
				registration.WithLogger(a.logger(cfg, cmd.ErrOrStderr())))...)
			users, err := wf.Users(cmd.Context())
			if err != nil {
				return err
			}
			for _, user := range users {
				fmt.Fprintln(cmd.OutOrStdout(), user.Email)
			}
			return nil
		},
	}
}

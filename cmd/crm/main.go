// Command crm is the Epic Events CRM terminal client.
//
//	crm [flags] [menu|login|logout|signup|whoami]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/epicevents/crm/internal/cli"
	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	opshttp "github.com/epicevents/crm/internal/infrastructure/http"
	"github.com/epicevents/crm/internal/pkg/config"
	"github.com/epicevents/crm/internal/pkg/password"
	"github.com/epicevents/crm/internal/pkg/token"
	"github.com/epicevents/crm/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("crm", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	envRequired := flags.Bool("env-required", false, "fail when the env file is missing")
	logLevel := flags.String("log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: crm [flags] [%s]\n\nFlags:\n", strings.Join(cli.Commands, "|"))
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, options{
		envFile:     *envFile,
		envRequired: *envRequired,
		logLevel:    *logLevel,
		args:        flags.Args(),
	})
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type options struct {
	envFile     string
	envRequired bool
	logLevel    string
	args        []string
}

func run(ctx context.Context, opts options) error {
	if err := config.LoadDotEnv(opts.envFile, opts.envRequired); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		File:   cfg.LogFile,
	})
	defer logger.Close()

	log.Info().
		Str("env", cfg.Env).
		Str("directory", cfg.Directory.Driver).
		Str("session_backend", cfg.Session.Backend).
		Msg("starting crm")

	dir, err := openDirectory(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("directory unavailable")
		fmt.Fprintln(os.Stderr, "The directory is unavailable. See the log for details.")
		return err
	}
	defer dir.close()

	tokens, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("session store unavailable")
		fmt.Fprintln(os.Stderr, "The session store is unavailable. See the log for details.")
		return err
	}
	defer tokens.close()

	if err := service.NewRoleSeeder(dir.Roles, logger.Component("seed")).EnsureDefaults(ctx); err != nil {
		log.Error().Err(err).Msg("role seeding failed")
		return err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Argon2.Memory,
		Time:        cfg.Argon2.Time,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  password.DefaultConfig().SaltLength,
		KeyLength:   password.DefaultConfig().KeyLength,
	})
	if err != nil {
		log.Error().Err(err).Msg("invalid argon2 parameters")
		return err
	}
	creds, err := service.NewCredentialStore(hasher)
	if err != nil {
		return err
	}
	codec, err := token.NewCodec([]byte(cfg.JWT.Secret), token.WithIssuer(cfg.JWT.Issuer))
	if err != nil {
		return err
	}

	prompter := cli.NewTerminalPrompter()
	engine := authz.NewEngine()
	svcLog := logger.Component("service")
	sessions := service.NewSessionManager(dir.Directory, creds, codec, tokens, cfg.Session.TTL, logger.Component("session"))
	app := cli.New(cli.Services{
		Engine:        engine,
		Sessions:      sessions,
		Clients:       service.NewClientService(dir.Directory, sessions, engine, prompter, svcLog),
		Contracts:     service.NewContractService(dir.Directory, sessions, engine, prompter, svcLog),
		Events:        service.NewEventService(dir.Directory, sessions, engine, prompter, svcLog),
		Collaborators: service.NewCollaboratorService(dir.Directory, sessions, creds, engine, prompter, svcLog),
	}, prompter, logger.Component("cli"))

	if cfg.OpsAddr != "" {
		opsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		opsLog := logger.Component("ops")
		router := opshttp.NewRouter(map[string]ports.Pinger{
			"directory": dir.pinger,
			"session":   tokens,
		}, opsLog)
		go func() {
			if err := opshttp.Serve(opsCtx, router, cfg.OpsAddr, opsLog); err != nil {
				opsLog.Error().Err(err).Msg("ops listener failed")
			}
		}()
	}

	return app.Execute(ctx, opts.args)
}

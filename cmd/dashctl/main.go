package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/target/dashboard-client/config"
	"github.com/target/dashboard-client/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Config   config.AppConfig
	Services *bootstrap.ServiceContainer
	Stdin    io.Reader
	Stdout   io.Writer
	// Wait bounds how long a command waits for its scheduled navigation.
	Wait time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to the shell
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_ = printUsage(stderr)
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(stderr, "unknown command %q\n\n", cmdName)
		_ = printUsage(stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(stderr, "load config: %v\n", err)
		return 1
	}
	logger := bootstrap.InitLogger(cfg.SlogLevel())

	services, err := bootstrap.BuildServices(ctx, bootstrap.ServiceDeps{Config: &cfg, Logger: logger})
	if err != nil {
		logger.ErrorContext(ctx, "build services", "error", err)
		return 1
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.WarnContext(ctx, "close services failed", "error", cerr)
		}
	}()

	cmdCtx := &commandContext{
		Ctx:      ctx,
		Logger:   logger,
		Config:   cfg,
		Services: services,
		Stdin:    stdin,
		Stdout:   stdout,
		Wait:     cfg.UI.NavigationDelay + time.Second,
	}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		logger.DebugContext(ctx, "command failed", "command", cmdName, "error", runErr)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and remember the session",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create an account",
			run:         runRegister,
		},
		"profile": {
			name:        "profile",
			description: "Show the signed-in user's name and avatar",
			run:         runProfile,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the user menu, account panel and footer",
			run:         runWhoami,
		},
		"upload-avatar": {
			name:        "upload-avatar",
			description: "Upload a JPEG or PNG profile picture",
			run:         runUploadAvatar,
		},
		"logout": {
			name:        "logout",
			description: "Sign out and forget the session",
			run:         runLogout,
		},
		"footer": {
			name:        "footer",
			description: "Print the footer credit line",
			run:         runFooter,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: dashctl <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

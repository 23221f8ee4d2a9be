package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/guided/guided-web/internal/adapters/memstore"
	"github.com/guided/guided-web/internal/bootstrap"
	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/gate"
	"github.com/guided/guided-web/internal/ports"
	"github.com/guided/guided-web/internal/service"
)

const passwordEnv = "GUIDED_ADMIN_PASSWORD"

func runPing(cmdCtx *commandContext, _ []string) error {
	backend, err := bootstrap.NewBackend(cmdCtx.Config.API, cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, cmdCtx.Config.API.ReadyTimeout)
	defer cancel()

	start := time.Now()
	pingErr := backend.Ping(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	status := "ok"
	if pingErr != nil {
		status = "unreachable"
	}
	if err := writef(cmdCtx.Stdout, "API:     %s\nStatus:  %s (%s)\nBreaker: %s\n",
		cmdCtx.Config.API.BaseURL, status, elapsed, backend.BreakerState()); err != nil {
		return fmt.Errorf("print ping result: %w", err)
	}
	if pingErr != nil {
		return fmt.Errorf("ping %s: %w", cmdCtx.Config.API.BaseURL, pingErr)
	}
	return nil
}

type resolveOptions struct {
	Email    string
	Password string
	JSON     bool
}

func parseResolveFlags(args []string, getenv func(string) string) (resolveOptions, error) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts resolveOptions
	fs.StringVar(&opts.Email, "email", "", "Email to sign in with (required)")
	fs.StringVar(&opts.Password, "password", "", "Password; defaults to $"+passwordEnv)
	fs.BoolVar(&opts.JSON, "json", false, "Print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return resolveOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return resolveOptions{}, errors.New("--email is required")
	}
	if opts.Password == "" {
		opts.Password = getenv(passwordEnv)
	}
	if opts.Password == "" {
		return resolveOptions{}, fmt.Errorf("--password or $%s is required", passwordEnv)
	}
	return opts, nil
}

type resolveReport struct {
	User        domainauth.Identity `json:"user"`
	Home        string              `json:"home"`
	Destination string              `json:"destination"`
}

func runResolve(cmdCtx *commandContext, args []string) error {
	opts, err := parseResolveFlags(args, os.Getenv)
	if err != nil {
		return err
	}
	backend, err := bootstrap.NewBackend(cmdCtx.Config.API, cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	report, err := resolveUser(ctx, backend, opts, cmdCtx.Logger)
	if err != nil {
		return err
	}
	return renderResolveReport(cmdCtx.Stdout, report, opts.JSON)
}

// resolveUser signs in through a throwaway in-memory session and runs the same
// progression resolver the server uses for post-login redirects.
func resolveUser(ctx context.Context, backend ports.Backend, opts resolveOptions, logger *slog.Logger) (resolveReport, error) {
	store := memstore.New(memstore.Options{})
	sess, err := service.NewSessionStore(service.SessionStoreOptions{
		SessionID: service.NewSessionID(),
		Backend:   backend,
		Tokens:    store,
		Drafts:    store,
		Logger:    logger,
	})
	if err != nil {
		return resolveReport{}, err
	}
	defer sess.Logout(ctx)

	res := sess.Login(ctx, opts.Email, opts.Password)
	if !res.Success || res.User == nil {
		return resolveReport{}, fmt.Errorf("sign in: %s", res.Error)
	}

	progress := service.NewProgressService(service.ProgressServiceOptions{Backend: backend, Logger: logger})
	return resolveReport{
		User:        *res.User,
		Home:        gate.HomeFor(res.User.Role),
		Destination: progress.NextFor(ctx, sess).String(),
	}, nil
}

func renderResolveReport(w io.Writer, r resolveReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode resolve report: %w", err)
		}
		return nil
	}
	if err := writef(w, "User:        %s <%s>\nRole:        %s\nVerified:    %t\nHome:        %s\nDestination: %s\n",
		r.User.Name, r.User.Email, r.User.Role, r.User.Verified, r.Home, r.Destination); err != nil {
		return fmt.Errorf("print resolve report: %w", err)
	}
	return nil
}

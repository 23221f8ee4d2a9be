package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/config"
	redisadapter "github.com/guided/guided-web/internal/adapters/redis"
	"github.com/guided/guided-web/internal/bootstrap"
	"github.com/guided/guided-web/internal/service"
)

var errRedisDisabled = errors.New("redis is disabled (set REDIS_ENABLED=true); in-memory sessions cannot be inspected")

// connectRedis opens the same Redis deployment the server uses.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectRedis(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !cfg.Enabled {
		return nil, errRedisDisabled
	}
	client, err := bootstrap.ConnectRedis(bootstrap.RedisConnectConfig{Context: ctx, Redis: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

type listSessionsOptions struct {
	Limit int
}

func parseListSessionsFlags(args []string) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts listSessionsOptions
	fs.IntVar(&opts.Limit, "limit", 100, "Maximum sessions to print (0 for all)")
	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Limit < 0 {
		return listSessionsOptions{}, errors.New("--limit must be >= 0")
	}
	return opts, nil
}

var sessionKeyNames = map[string]bool{
	redisadapter.TokenKey:        true,
	redisadapter.DraftKey:        true,
	redisadapter.NotificationKey: true,
}

// sessionSummary describes the keys persisted for one browser session.
type sessionSummary struct {
	ID       string
	HasToken bool
	HasDraft bool
	Toasts   int64
	TokenTTL time.Duration
	Keys     []string
}

// groupSessionKeys folds scanned keys into per-session summaries sorted by session ID.
// Keys outside the session layout are ignored.
func groupSessionKeys(prefix string, keys []string) []sessionSummary {
	byID := make(map[string]*sessionSummary)
	for _, key := range keys {
		sid, name, ok := redisadapter.ParseSessionKey(prefix, key)
		if !ok || !sessionKeyNames[name] {
			continue
		}
		s := byID[sid]
		if s == nil {
			s = &sessionSummary{ID: sid}
			byID[sid] = s
		}
		s.Keys = append(s.Keys, key)
		switch name {
		case redisadapter.TokenKey:
			s.HasToken = true
		case redisadapter.DraftKey:
			s.HasDraft = true
		}
	}

	out := make([]sessionSummary, 0, len(byID))
	for _, s := range byID {
		sort.Strings(s.Keys)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func scanKeys(ctx context.Context, client redis.UniversalClient, pattern string) ([]string, error) {
	var keys []string
	iter := client.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	return keys, nil
}

// describeSessions fills token TTLs and toast counts for each summary.
func describeSessions(ctx context.Context, client redis.UniversalClient, prefix string, sessions []sessionSummary) error {
	for i := range sessions {
		s := &sessions[i]
		keys, err := redisadapter.SessionKeys(prefix, s.ID)
		if err != nil {
			return err
		}
		if s.HasToken {
			ttl, err := client.TTL(ctx, keys[0]).Result()
			if err != nil {
				return fmt.Errorf("ttl %s: %w", keys[0], err)
			}
			s.TokenTTL = ttl
		}
		n, err := client.LLen(ctx, keys[2]).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("llen %s: %w", keys[2], err)
		}
		s.Toasts = n
	}
	return nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedis(ctx, cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	prefix := cmdCtx.Config.Redis.KeyPrefix
	keys, err := scanKeys(ctx, client, redisadapter.SessionPattern(prefix))
	if err != nil {
		return err
	}
	sessions := groupSessionKeys(prefix, keys)
	total := len(sessions)
	if opts.Limit > 0 && len(sessions) > opts.Limit {
		sessions = sessions[:opts.Limit]
	}
	if err := describeSessions(ctx, client, prefix, sessions); err != nil {
		return err
	}
	return renderSessions(cmdCtx.Stdout, sessions, total)
}

func renderSessions(w io.Writer, sessions []sessionSummary, total int) error {
	if total == 0 {
		return writeln(w, "(no sessions found)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "SESSION\tTOKEN\tTOKEN TTL\tDRAFT\tTOASTS\n"); err != nil {
		return fmt.Errorf("print sessions header: %w", err)
	}
	for _, s := range sessions {
		ttl := "-"
		if s.HasToken {
			ttl = formatTTL(s.TokenTTL)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%d\n",
			s.ID, yesNo(s.HasToken), ttl, yesNo(s.HasDraft), s.Toasts); err != nil {
			return fmt.Errorf("print session row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush sessions table: %w", err)
	}
	if len(sessions) < total {
		return writef(w, "\nShowing %d of %d sessions\n", len(sessions), total)
	}
	return writef(w, "\nTotal sessions: %d\n", total)
}

// formatTTL renders redis TTL results, where -1 is no expiry and -2 is a missing key.
func formatTTL(d time.Duration) string {
	switch {
	case d == -1:
		return "none"
	case d < 0:
		return "expired"
	default:
		return d.Round(time.Second).String()
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type clearSessionOptions struct {
	SessionID string
	All       bool
	DryRun    bool
	Yes       bool
}

func parseClearSessionFlags(args []string) (clearSessionOptions, error) {
	fs := flag.NewFlagSet("clear-session", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts clearSessionOptions
	fs.StringVar(&opts.SessionID, "session-id", "", "Session to clear (required unless --all)")
	fs.BoolVar(&opts.All, "all", false, "Clear every persisted session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print the keys that would be deleted")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return clearSessionOptions{}, err
	}

	opts.SessionID = strings.TrimSpace(opts.SessionID)
	switch {
	case opts.All && opts.SessionID != "":
		return clearSessionOptions{}, errors.New("--session-id and --all are mutually exclusive")
	case !opts.All && opts.SessionID == "":
		return clearSessionOptions{}, errors.New("--session-id or --all is required")
	case opts.SessionID != "" && !service.ValidSessionID(opts.SessionID):
		return clearSessionOptions{}, fmt.Errorf("invalid session id %q", opts.SessionID)
	}
	return opts, nil
}

func (o clearSessionOptions) target() string {
	if o.All {
		return "ALL sessions"
	}
	return "session " + o.SessionID
}

func runClearSession(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionFlags(args)
	if err != nil {
		return err
	}
	if !opts.DryRun && !opts.Yes {
		if err := confirm(cmdCtx.Stdout, cmdCtx.Stdin, "About to clear "+opts.target()+"."); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedis(ctx, cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	keys, err := keysToClear(ctx, client, cmdCtx.Config.Redis.KeyPrefix, opts)
	if err != nil {
		return err
	}
	if opts.DryRun {
		for _, k := range keys {
			if err := writef(cmdCtx.Stdout, "would delete %s\n", k); err != nil {
				return err
			}
		}
		return nil
	}

	deleted, err := deleteKeys(ctx, client, keys)
	if err != nil {
		return err
	}
	cmdCtx.Logger.InfoContext(ctx, "clear sessions complete", "target", opts.target(), "keys_deleted", deleted)
	return nil
}

func keysToClear(ctx context.Context, client redis.UniversalClient, prefix string, opts clearSessionOptions) ([]string, error) {
	if opts.All {
		keys, err := scanKeys(ctx, client, redisadapter.SessionPattern(prefix))
		if err != nil {
			return nil, err
		}
		var out []string
		for _, s := range groupSessionKeys(prefix, keys) {
			out = append(out, s.Keys...)
		}
		return out, nil
	}
	return redisadapter.SessionKeys(prefix, opts.SessionID)
}

// deleteKeys removes keys one at a time; cluster deployments reject multi-slot DEL.
func deleteKeys(ctx context.Context, client redis.UniversalClient, keys []string) (int64, error) {
	var deleted int64
	for _, k := range keys {
		n, err := client.Del(ctx, k).Result()
		if err != nil {
			return deleted, fmt.Errorf("delete %s: %w", k, err)
		}
		deleted += n
	}
	return deleted, nil
}

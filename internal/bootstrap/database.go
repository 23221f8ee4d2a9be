package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/config"
)

const redisPingTimeout = 5 * time.Second

// RedisConnectConfig contains configuration for the Redis connection.
type RedisConnectConfig struct {
	Context context.Context
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// ConnectRedis builds the client described by cfg.Redis and pings it.
//
//nolint:ireturn // go-redis picks the plain, failover or cluster client from the options.
func ConnectRedis(cfg RedisConnectConfig) (redis.UniversalClient, error) {
	opts, desc, err := universalOptions(cfg.Redis)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", desc, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "addr", desc, "key_prefix", cfg.Redis.KeyPrefix)
	}
	return client, nil
}

// universalOptions maps the Redis settings onto go-redis universal options. The returned
// description names the target without credentials.
func universalOptions(c config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case c.UseSentinel:
		nodes := nonEmpty(c.SentinelNodes)
		if len(nodes) == 0 || c.SentinelMasterName == "" {
			return nil, "", errors.New("redis sentinel mode needs REDIS_SENTINEL_NODES and REDIS_SENTINEL_MASTER_NAME")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       c.SentinelMasterName,
			Password:         c.Password,
			SentinelPassword: c.SentinelPassword,
			DB:               c.DB,
		}, "sentinel:" + c.SentinelMasterName, nil

	case c.UseCluster:
		nodes := nonEmpty(c.ClusterNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis cluster mode needs REDIS_CLUSTER_NODES")
		}
		return &redis.UniversalOptions{
			Addrs:         nodes,
			Password:      c.Password,
			IsClusterMode: true,
		}, "cluster:" + strings.Join(nodes, ","), nil
	}

	uri := strings.TrimSpace(c.URI)
	if uri == "" {
		return nil, "", errors.New("redis needs REDIS_URI")
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: c.Password, DB: c.DB}, uri, nil
	}

	// URL credentials and database take precedence over the separate settings.
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	password := parsed.Password
	if password == "" {
		password = c.Password
	}
	return &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}, parsed.Addr, nil
}

func nonEmpty(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

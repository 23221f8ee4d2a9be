// Package redis provides Redis-backed durable client storage: the bearer token,
// the onboarding draft and the toast queue of each browser session.
package redis

import (
	"errors"
	"strings"
)

// Fixed key names within a browser session's keyspace.
const (
	TokenKey        = "guided_token"
	DraftKey        = "onboarding_draft"
	NotificationKey = "notifications"

	// DefaultPrefix namespaces every key written by this package.
	DefaultPrefix = "guided:"
)

var errEmptySessionID = errors.New("session ID cannot be empty")

// keyspace builds "<prefix><sessionID>:<name>" keys.
type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) key(sessionID, name string) string {
	return k.prefix + sessionID + ":" + name
}

// SessionPattern is the SCAN pattern matching every session key under prefix.
func SessionPattern(prefix string) string {
	return newKeyspace(prefix).prefix + "*"
}

// SessionKeys returns every key held for one browser session.
func SessionKeys(prefix, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, errEmptySessionID
	}
	ks := newKeyspace(prefix)
	return []string{
		ks.key(sessionID, TokenKey),
		ks.key(sessionID, DraftKey),
		ks.key(sessionID, NotificationKey),
	}, nil
}

// ParseSessionKey splits a key written by this package into its session ID and name.
func ParseSessionKey(prefix, key string) (sessionID, name string, ok bool) {
	rest, found := strings.CutPrefix(key, newKeyspace(prefix).prefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

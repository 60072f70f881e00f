package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sman1jakarta/portal/internal/bootstrap"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

const scanBatch = 200

type sessionsOptions struct {
	Timeout time.Duration
	Yes     bool
}

type sessionRow struct {
	Key     string
	Session domainauth.Session
	Corrupt bool
}

func parseSessionsFlags(name string, args []string) (sessionsOptions, error) {
	fs := newFlagSet(name)
	opts := sessionsOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
	if name == "clear-sessions" {
		fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	}
	if err := fs.Parse(args); err != nil {
		return sessionsOptions{}, err
	}
	if err := checkTimeout(opts.Timeout); err != nil {
		return sessionsOptions{}, err
	}
	return opts, nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsFlags("list-sessions", args)
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, opts.Timeout, func(ctx context.Context, client redis.UniversalClient) error {
		keys, scanErr := scanKeys(ctx, client, bootstrap.SessionKeyPrefix+"*")
		if scanErr != nil {
			return scanErr
		}
		rows := make([]sessionRow, 0, len(keys))
		for _, key := range keys {
			raw, getErr := client.Get(ctx, key).Bytes()
			if errors.Is(getErr, redis.Nil) {
				continue
			}
			if getErr != nil {
				return fmt.Errorf("get %s: %w", key, getErr)
			}
			sess, decodeErr := domainauth.DecodeRecord(raw)
			rows = append(rows, sessionRow{Key: key, Session: sess, Corrupt: decodeErr != nil})
		}
		return printSessions(os.Stdout, rows, time.Now())
	})
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsFlags("clear-sessions", args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(opts.Yes, "About to sign out every console user."); confirmErr != nil {
		return confirmErr
	}
	return withRedis(cmdCtx, opts.Timeout, func(ctx context.Context, client redis.UniversalClient) error {
		keys, scanErr := scanKeys(ctx, client, bootstrap.SessionKeyPrefix+"*")
		if scanErr != nil {
			return scanErr
		}
		removed := 0
		// Keys are deleted one at a time so cluster slots never mix in one call.
		for _, key := range keys {
			n, delErr := client.Del(ctx, key).Result()
			if delErr != nil {
				return fmt.Errorf("delete %s: %w", key, delErr)
			}
			removed += int(n)
		}
		cmdCtx.Logger.Info("sessions cleared", "removed", removed)
		return writef(os.Stdout, "Removed %d session(s).\n", removed)
	})
}

// scanKeys walks the keyspace with SCAN, visiting every master on a cluster.
func scanKeys(ctx context.Context, client redis.UniversalClient, pattern string) ([]string, error) {
	if cluster, ok := client.(*redis.ClusterClient); ok {
		var (
			mu   sync.Mutex
			keys []string
		)
		err := cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			found, err := scanNode(ctx, node, pattern)
			if err != nil {
				return err
			}
			mu.Lock()
			keys = append(keys, found...)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		sort.Strings(keys)
		return keys, nil
	}
	keys, err := scanNode(ctx, client, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func scanNode(ctx context.Context, client redis.Cmdable, pattern string) ([]string, error) {
	var keys []string
	iter := client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func printSessions(out io.Writer, rows []sessionRow, now time.Time) error {
	if len(rows) == 0 {
		return writeln(out, "No active sessions.")
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "SESSION\tUSER\tROLE\tSIGNED IN\tEXPIRES"); err != nil {
		return err
	}
	for _, row := range rows {
		id := strings.TrimPrefix(row.Key, bootstrap.SessionKeyPrefix)
		if row.Corrupt {
			if err := writef(tw, "%s\t(unreadable)\t-\t-\t-\n", id); err != nil {
				return err
			}
			continue
		}
		s := row.Session
		expires := "on logout"
		if !s.ExpiresAt.IsZero() {
			expires = "in " + s.ExpiresAt.Sub(now).Round(time.Second).String()
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			id, s.Email, s.Role.Label(), s.LoginTime.Local().Format("2006-01-02 15:04"), expires); err != nil {
			return err
		}
	}
	return tw.Flush()
}

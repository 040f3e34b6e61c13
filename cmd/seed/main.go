// Command seed writes sample client interests and cached values into the store.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/janisto/scoring-api/internal/platform/config"
	"github.com/janisto/scoring-api/internal/platform/redis"
	"github.com/janisto/scoring-api/internal/store"
)

// Interests is the tag vocabulary sampled for each client.
var Interests = []string{
	"cars", "pets", "travel", "hi-tech", "sport", "music", "books", "tv", "cinema", "geek", "otus",
}

const tagsPerClient = 2

// opener connects to the store; the returned func releases it.
type opener func(ctx context.Context) (store.BulkStore, func() error, error)

func main() {
	if err := newRootCmd(redisOpener).Execute(); err != nil {
		os.Exit(1)
	}
}

func redisOpener(ctx context.Context) (store.BulkStore, func() error, error) {
	cfg, err := config.LoadRedis()
	if err != nil {
		return nil, nil, err
	}
	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, nil, err
	}
	return store.NewRedisStore(client), client.Close, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Manage sample client interests in the store",
		SilenceUsage: true,
	}
	root.AddCommand(newInterestsCmd(open), newClearCmd(open), newCacheCmd(open))
	return root
}

func newInterestsCmd(open opener) *cobra.Command {
	var ids []int
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Write two random interests for each client id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), open, func(ctx context.Context, s store.BulkStore) error {
				for _, id := range ids {
					tags := sample(Interests, tagsPerClient)
					if err := s.SetList(ctx, strconv.Itoa(id), tags...); err != nil {
						return fmt.Errorf("client %d: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", id, tags)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "client ids to seed (comma separated)")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func newClearCmd(open opener) *cobra.Command {
	var ids []int
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the interests of each client id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := make([]string, len(ids))
			for i, id := range ids {
				keys[i] = strconv.Itoa(id)
			}
			return withStore(cmd.Context(), open, func(ctx context.Context, s store.BulkStore) error {
				if err := s.Delete(ctx, keys...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d clients\n", len(keys))
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "client ids to clear (comma separated)")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func newCacheCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or preload cached string values",
	}

	set := &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Store values without expiry in a single MSET",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string, len(args))
			for _, arg := range args {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return fmt.Errorf("%q is not KEY=VALUE", arg)
				}
				values[k] = v
			}
			return withStore(cmd.Context(), open, func(ctx context.Context, s store.BulkStore) error {
				if err := s.SetMany(ctx, values); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored %d keys\n", len(values))
				return nil
			})
		},
	}

	get := &cobra.Command{
		Use:   "get KEY...",
		Short: "Print cached values in a single MGET",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), open, func(ctx context.Context, s store.BulkStore) error {
				values, err := s.GetMany(ctx, args...)
				if err != nil {
					return err
				}
				for i, key := range args {
					if values[i] == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: (missing)\n", key)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, *values[i])
				}
				return nil
			})
		},
	}

	cmd.AddCommand(set, get)
	return cmd
}

func withStore(ctx context.Context, open opener, fn func(context.Context, store.BulkStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, closeFn, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = closeFn() }()
	return fn(ctx, s)
}

// sample returns n distinct values of vocab in random order.
func sample(vocab []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(vocab))[:n] {
		out = append(out, vocab[i])
	}
	return out
}

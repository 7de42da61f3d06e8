package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clientbrief/clientbrief/errors"
	"github.com/clientbrief/clientbrief/internal/infrastructure/cache"
	"github.com/clientbrief/clientbrief/pkg/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the AI response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCacheStats(); err != nil {
			reportError(err)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached AI responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCacheClear(); err != nil {
			reportError(err)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// Cache maintenance works without an API key, so it reads the config
// without validating it.
func openCacheStore() (*cache.Store, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, errors.ErrConfigInvalid(err)
	}
	store, err := cache.NewStore(cfg.Paths.CacheDir, nil)
	if err != nil {
		return nil, errors.ErrCacheFailed("open cache", err)
	}
	return store, nil
}

func runCacheStats() error {
	store, err := openCacheStore()
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return errors.ErrCacheFailed("read stats", err)
	}
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return errors.ErrCacheFailed("encode stats", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func runCacheClear() error {
	store, err := openCacheStore()
	if err != nil {
		return err
	}
	removed, err := store.Clear()
	if err != nil {
		return errors.ErrCacheFailed("clear", err)
	}
	fmt.Fprintf(os.Stdout, "Cache cleared: %d entries removed from %s\n", removed, store.Dir())
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/ctxline/internal/store"

	"github.com/spf13/cobra"
)

var flagPruneDays int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the transcript usage cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached usage snapshot",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete snapshots not refreshed recently",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

func init() {
	cachePruneCmd.Flags().IntVarP(&flagPruneDays, "days", "n", 7, "Keep snapshots parsed within this many days")
	cacheCmd.AddCommand(cacheClearCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	cache, err := store.Open(settings.CachePath())
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Clear()
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Removed %d cached snapshot(s) from %s\n", n, settings.CachePath())
	return nil
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	if flagPruneDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	cache, err := store.Open(settings.CachePath())
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Prune(time.Now().AddDate(0, 0, -flagPruneDays))
	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}
	left, err := cache.Count()
	if err != nil {
		return fmt.Errorf("counting cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Removed %d snapshot(s), %d remaining\n", n, left)
	return nil
}

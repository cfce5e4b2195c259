package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pbrforge/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk generation cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the number of cached texture sets",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached texture set",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd, cacheClearCmd)

	cacheCmd.PersistentFlags().String("cache-path", "./pbrforge-cache.db", "Path to the generation cache database")
	if err := viper.BindPFlag("cache.path", cacheCmd.PersistentFlags().Lookup("cache-path")); err != nil {
		panic(fmt.Sprintf("failed to bind flag cache-path: %v", err))
	}
}

func openCache() (*cache.Store, error) {
	return cache.Open(viper.GetString("cache.path"))
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count()
	if err != nil {
		return err
	}
	fmt.Printf("%d cached texture set(s)\n", n)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/vaultview/internal/profile"
	"github.com/hrygo/vaultview/server"
	"github.com/hrygo/vaultview/internal/observability"
	"github.com/hrygo/vaultview/store"
	"github.com/hrygo/vaultview/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "vaultview",
	Short: "Knowledge graph viewer for your personal data vault",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:           viper.GetString("mode"),
			Addr:           viper.GetString("addr"),
			Port:           viper.GetInt("port"),
			Data:           viper.GetString("data"),
			Driver:         viper.GetString("driver"),
			DSN:            viper.GetString("dsn"),
			Layout:         viper.GetString("layout"),
			GraphCacheSize: viper.GetInt("graph-cache-size"),
			Version:        version,
		}
		if err := instanceProfile.Validate(); err != nil {
			return err
		}

		observability.SetDefault(observability.NewLogger(instanceProfile.Mode))

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}
		storeInstance := store.New(dbDriver, instanceProfile)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := server.NewServer(instanceProfile, storeInstance)
		if err := s.Start(ctx); err != nil {
			slog.Error("server exited", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().String("mode", "dev", `mode of the server: "dev" or "prod"`)
	rootCmd.Flags().String("addr", "", "binding address")
	rootCmd.Flags().Int("port", 8231, "binding port")
	rootCmd.Flags().String("data", "", "data directory")
	rootCmd.Flags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.Flags().String("dsn", "", "database connection string")
	rootCmd.Flags().String("layout", "spring", `default layout engine: "spring" or "spiral"`)
	rootCmd.Flags().Int("graph-cache-size", 16, "number of built graphs kept in cache")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "layout", "graph-cache-size"} {
		_ = viper.BindPFlag(flag, rootCmd.Flags().Lookup(flag))
	}
	viper.SetEnvPrefix("vaultview")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

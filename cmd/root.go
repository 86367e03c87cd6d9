package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kisanportal/mandi-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mandi-cli",
	Short: "Live mandi prices and nearest-market search",
	Long:  "Fetches daily agricultural market prices from data.gov.in, finds the mandis closest to you, and links driving directions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

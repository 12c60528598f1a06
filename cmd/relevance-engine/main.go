// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the relevance-engine CLI: the
// document-ranking and filtering pipeline behind the research workflow. The
// collector produces candidate pools; this binary ranks, filters, and bounds
// them per declared research purpose.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/relevance-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the relevance-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "relevance-engine",
	Short: "Purpose-aware ranking and filtering for research candidate pools",
	Long: `relevance-engine converges a large, noisy candidate pool on a small,
bounded, high-quality result set calibrated to a declared research purpose.

The pipeline runs lexical recall scoring, semantic reranking over a bounded
subset, domain and aspect filtering, purpose-weighted quality scoring, an
adaptive threshold search targeting a result-count band, and diversity
sampling for breadth-oriented purposes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./relevance-engine.yaml or ~/.config/relevance-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("relevance-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "relevance-engine"))
		}
	}

	viper.SetEnvPrefix("RELEVANCE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

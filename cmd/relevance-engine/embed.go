// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/relevance-engine/internal/embed"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Embed a text through the configured model and cache",
	Long: `Embed generates one embedding through the configured model, exercising the
same cache the pipeline uses. Intended for debugging model and cache
configuration; prints the model, dimensionality, norm, and optionally the
vector.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().Bool("vector", false, "print the full vector as JSON")
	embedCmd.Flags().Bool("cache-stats", false, "print persistent cache entry count")

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg := rankConfig()

	cache, err := embed.NewCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer cache.Close()

	svc, err := embed.NewService(buildModel(cfg.Embedding), cache, cfg.Embedding.Workers, cfg.Embedding.Timeout)
	if err != nil {
		return err
	}
	defer svc.Close()

	emb, err := svc.Embed(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("model: %s\ndimensions: %d\nnorm: %.6f\n", emb.Model, emb.Dim, emb.Norm)

	if showStats, _ := cmd.Flags().GetBool("cache-stats"); showStats {
		fmt.Printf("memory cache entries: %d\n", cache.Len())
	}

	if showVec, _ := cmd.Flags().GetBool("vector"); showVec {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(emb.Vector); err != nil {
			return err
		}
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litrec CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/internal/secrets"
	"github.com/pdiddy/litrec/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the litrec CLI.
var rootCmd = &cobra.Command{
	Use:   "litrec",
	Short: "Benchmark pipeline for NL-profile literature recommendation",
	Long: `litrec builds and evaluates a benchmark for scientific literature
recommendation driven by natural language research profiles. Each pipeline
stage is a subcommand: corpus, sample, dataset, docs, index, retrieve,
rerank, classify, and eval.

A typical run walks the stages in order: fetch and build the corpus,
sample users, generate the dataset with candidate pools and NL profiles,
index the candidate documents, retrieve, rerank, and evaluate.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litrec.yaml or ~/.config/litrec/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litrec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litrec"))
		}
	}

	viper.SetEnvPrefix("LITREC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// addLLMFlags registers the flags shared by every LLM-backed command.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "openrouter", "LLM backend: openrouter or ollama")
	cmd.Flags().String("model", "", "model identifier")
	cmd.Flags().String("api-key", "", "API key (default: .secrets/openrouter-api-key)")
	cmd.Flags().String("base-url", "", "API endpoint override")
	cmd.Flags().Duration("llm-timeout", 0, "per-request LLM timeout")
	cmd.Flags().Duration("request-interval", llm.DefaultRequestInterval, "minimum delay between LLM requests (0 = unpaced)")
}

// llmConfigFromFlags builds an LLMConfig from the shared flags.
func llmConfigFromFlags(cmd *cobra.Command) types.LLMConfig {
	backend, _ := cmd.Flags().GetString("backend")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	baseURL, _ := cmd.Flags().GetString("base-url")
	timeout, _ := cmd.Flags().GetDuration("llm-timeout")
	interval, _ := cmd.Flags().GetDuration("request-interval")

	return types.LLMConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: timeout,
		},
		Backend:         types.LLMBackend(backend),
		Model:           model,
		APIKey:          secretDefault("openrouter-api-key", apiKey),
		BaseURL:         baseURL,
		RequestInterval: interval,
	}
}

// sortedAuthorIDs returns the keys of a per-author map in sorted order so
// stage output is reproducible across runs.
func sortedAuthorIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// stageTimer prints the elapsed time for a stage when it finishes.
func stageTimer(name string) func() {
	start := time.Now()
	return func() {
		fmt.Fprintf(os.Stderr, "%s finished in %v\n", name, time.Since(start).Round(time.Millisecond))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Command medassist is a medical assistant CLI. It answers questions about
// doctors and institutions from a PostgreSQL database, general medical topics
// from stored article summaries, and anything else directly from the model.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nevenar/medassist/internal/agent"
	"github.com/nevenar/medassist/internal/config"
	"github.com/nevenar/medassist/internal/history"
	"github.com/nevenar/medassist/internal/llm"
	"github.com/nevenar/medassist/internal/logging"
	"github.com/nevenar/medassist/internal/retrieval"
	"github.com/nevenar/medassist/internal/store"
)

var version = "0.1.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "medassist",
		Short:        "Medical assistant for doctor lookups and health questions",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.medassist/config.yaml)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, configures logging, and builds the orchestrator
// with its backends.
func setup(ctx context.Context) (*agent.Orchestrator, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	cleanup := func() {
		if closer != nil {
			closer.Close()
		}
	}

	provider := llm.NewOllamaProvider(&llm.Config{
		Name:        cfg.LLM.Provider,
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
	})
	if !provider.Available() {
		cleanup()
		return nil, nil, fmt.Errorf("language model %q is not reachable at %s", cfg.LLM.Model, cfg.LLM.Endpoint)
	}

	st := store.NewPostgresStore(cfg.Database.DSN)
	rt := retrieval.NewPostgresRetriever(cfg.Database.DSN, provider,
		retrieval.WithTable(cfg.Retrieval.Table),
		retrieval.WithTopK(cfg.Retrieval.TopK),
	)

	orch := agent.New(ctx, provider, st, rt, agent.WithTables(cfg.Database.Tables))
	return orch, cleanup, nil
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orch, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			question := strings.Join(args, " ")
			state := orch.RunCycle(ctx, question, nil)
			fmt.Println(state.FinalAnswer)
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orch, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			caps := orch.Capabilities()
			fmt.Println("medassist — type a question, or 'exit' to quit.")
			if !caps.SQL {
				fmt.Println("note: database is unavailable; doctor lookups are disabled.")
			}
			if !caps.RAG {
				fmt.Println("note: article search is unavailable; medical questions fall back to the model.")
			}

			var hist []history.Message
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				state := orch.RunCycle(ctx, question, hist)
				fmt.Println(state.FinalAnswer)
				fmt.Println()

				hist = append(hist, history.User(question), history.Assistant(state.FinalAnswer))
			}
			if err := scanner.Err(); err != nil {
				log.Error().Err(err).Msg("reading input")
				return err
			}
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema used for SQL generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			schema := orch.Schema()
			if schema == "" {
				return fmt.Errorf("schema is unavailable; check the database connection")
			}
			fmt.Println(schema)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the medassist version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("medassist %s\n", version)
		},
	}
}

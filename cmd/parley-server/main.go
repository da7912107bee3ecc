// Package main provides the Parley sample HTTP server, exposing the chat and
// triage paths as minimal JSON endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parleyhq/parley/pkg/chat"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/httpapi"
	"github.com/parleyhq/parley/pkg/llm/openai"
	"github.com/parleyhq/parley/pkg/thread"
)

const shutdownGrace = 10 * time.Second

func main() {
	_ = godotenv.Load()

	var (
		addr       = flag.String("addr", ":8080", "Listen address")
		configFile = flag.String("config", "", "Path to config file (default ~/.parley/config.yaml)")
	)
	flag.Parse()

	svc, err := buildService(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("parley-server listening on %s\n", *addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
}

func buildService(configFile string) (*chat.Service, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	var providerOpts []openai.ProviderOption
	if cfg.LLM.Model != "" {
		providerOpts = append(providerOpts, openai.WithModel(cfg.LLM.Model))
	}
	if cfg.LLM.BaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}

	provider, err := openai.NewProvider(cfg.LLM.APIKey, providerOpts...)
	if err != nil {
		return nil, err
	}

	opts := []chat.Option{
		chat.WithAutoSummarization(cfg.Chat.AutoSummarizeEnabled()),
		chat.WithSummarizationThreshold(cfg.Chat.SummarizationThreshold),
		chat.WithRecentTurnsToKeep(cfg.Chat.RecentTurnsToKeep),
		chat.WithMaxContextTurns(cfg.Chat.MaxContextTurns),
	}
	if cfg.Chat.Instructions != "" {
		opts = append(opts, chat.WithInstructionProvider(chat.StaticInstructions(cfg.Chat.Instructions)))
	}

	var threadOpts []thread.ServiceOption
	if cfg.Storage.HistoryDir != "" {
		store, err := thread.NewFileStore(cfg.Storage.HistoryDir)
		if err != nil {
			return nil, err
		}
		threadOpts = append(threadOpts, thread.WithStore(store))
	}

	return chat.NewService(thread.NewService(threadOpts...), provider, opts...), nil
}

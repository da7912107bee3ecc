// Package main provides the Parley console REPL: a minimal interactive chat
// over the orchestration service, useful for trying a configuration before
// wiring the library into an application.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/parleyhq/parley/pkg/chat"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/llm"
	"github.com/parleyhq/parley/pkg/llm/openai"
	"github.com/parleyhq/parley/pkg/summarize"
	"github.com/parleyhq/parley/pkg/thread"
)

const version = "0.1.0"

type cliConfig struct {
	configFile  string
	apiKey      string
	baseURL     string
	model       string
	showVersion bool
}

func main() {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	cli := parseFlags()
	if cli.showVersion {
		fmt.Printf("parley %s\n", version)
		return
	}

	svc, err := buildService(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runREPL(ctx, svc)
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}
	flag.StringVar(&cli.configFile, "config", "", "Path to config file (default ~/.parley/config.yaml)")
	flag.StringVar(&cli.apiKey, "api-key", "", "API key (overrides config and OPENAI_API_KEY)")
	flag.StringVar(&cli.baseURL, "base-url", "", "OpenAI-compatible base URL")
	flag.StringVar(&cli.model, "model", "", "Model name")
	flag.BoolVar(&cli.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return cli
}

func buildService(cli *cliConfig) (*chat.Service, error) {
	cfg, err := config.Load(cli.configFile)
	if err != nil {
		return nil, err
	}

	// Flags win over config and environment.
	if cli.apiKey != "" {
		cfg.LLM.APIKey = cli.apiKey
	}
	if cli.baseURL != "" {
		cfg.LLM.BaseURL = cli.baseURL
	}
	if cli.model != "" {
		cfg.LLM.Model = cli.model
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
	if cfg.LLM.SummarizationModel != "" {
		if cloner, ok := any(provider).(llm.ModelCloner); ok {
			opts = append(opts, chat.WithSummarizer(
				summarize.NewSummarizer(cloner.CloneWithModel(cfg.LLM.SummarizationModel)),
			))
		}
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

func runREPL(ctx context.Context, svc *chat.Service) {
	fmt.Println("parley — type a message, /new for a fresh thread, /quit to exit")

	threadID := ""
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return
		case line == "/new":
			threadID = ""
			fmt.Println("started a new thread")
			continue
		}

		turn, err := svc.Respond(ctx, line, threadID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			if ctx.Err() != nil {
				return
			}
			continue
		}
		threadID = turn.ThreadID

		fmt.Printf("assistant> %s\n", turn.Content)
		for _, w := range turn.Widgets {
			payload, _ := json.Marshal(w)
			fmt.Printf("  [widget] %s\n", payload)
		}
	}
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/meresu/lead-advisor/internal/advisor"
	"github.com/meresu/lead-advisor/internal/ai"
	"github.com/meresu/lead-advisor/internal/ai/gemini"
	"github.com/meresu/lead-advisor/internal/ai/groq"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/logger"
	"github.com/meresu/lead-advisor/internal/pipeline"
	"github.com/meresu/lead-advisor/internal/scoring"
	"github.com/meresu/lead-advisor/internal/secrets"
	"github.com/meresu/lead-advisor/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lead API and the advisor over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the lead-advisor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store := leads.NewStore(config.ProjectsFile, logger)
	if err := store.Reload(); err != nil {
		logger.Fatal("loading qualified leads", zap.Error(err))
	}

	runner := pipeline.New(config.Pipeline.Command, config.Pipeline.Workdir, logger, func() {
		if err := store.Reload(); err != nil {
			logger.Error("reloading leads after pipeline run", zap.Error(err))
		}
	})

	adv, err := buildAdvisor(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the advisor", zap.Error(err))
	}

	srv := server.New(store, runner, adv, logger)

	logger.Info("listening", zap.String("address", config.Listen))

	if err := http.ListenAndServe(config.Listen, srv.Handler()); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

func buildAdvisor(ctx context.Context, config *Config, logger *zap.Logger) (*advisor.Advisor, error) {
	scorer := scoring.NewScorer(scoring.WeightsByName(config.Advisor.WeightProfile), logger)

	responder, err := newResponder(ctx, config.AI, logger)
	if err != nil {
		// The service stays useful without a model; the composer
		// answers everything locally.
		logger.Warn("serving without a model responder", zap.Error(err))
		responder = nil
	}

	opts := advisor.Options{
		Responder: responder,
		Limit:     config.Advisor.Limit,
		Timeout:   time.Duration(config.Advisor.TimeoutSeconds) * time.Second,
	}

	return advisor.New(scorer, opts, logger), nil
}

func newResponder(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Responder, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "groq":
		if cfg.Groq == nil {
			return nil, fmt.Errorf("groq configuration is required when the groq provider is enabled")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "groq api key",
			File: cfg.Groq.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.groq.api-key-file or GROQ_API_KEY_FILE)", err)
		}

		return groq.New(apiKey, cfg.Groq.Model, cfg.Groq.Endpoint, logger.With(
			zap.String("provider", "groq"),
		))
	case "gemini":
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is enabled")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		return gemini.New(ctx, apiKey, cfg.Gemini.Model, logger.With(
			zap.String("provider", "gemini"),
		))
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"claimlens/internal/model"
)

// buildConfig assembles the runtime configuration: defaults, then config
// file values, then environment credentials. Flag overrides are applied
// by the individual commands on top of this.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("claimbuster.endpoint"); v != "" {
		cfg.ClaimBuster.Endpoint = v
	}
	if v := viper.GetString("factcheck.endpoint"); v != "" {
		cfg.FactCheck.Endpoint = v
	}
	if v := viper.GetString("factcheck.language"); v != "" {
		cfg.FactCheck.Language = v
	}
	if viper.IsSet("factcheck.max_results") {
		cfg.FactCheck.MaxResults = viper.GetInt("factcheck.max_results")
	}
	if viper.IsSet("pipeline.top_k") {
		cfg.Pipeline.TopK = viper.GetInt("pipeline.top_k")
	}
	if viper.IsSet("pipeline.score_threshold") {
		cfg.Pipeline.ScoreThreshold = viper.GetFloat64("pipeline.score_threshold")
	}
	if viper.IsSet("pipeline.search_workers") {
		cfg.Pipeline.SearchWorkers = viper.GetInt("pipeline.search_workers")
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}

	// Credentials come from the environment, never from flags.
	cfg.ClaimBuster.APIKey = os.Getenv("CLAIMBUSTER_API_KEY")
	cfg.FactCheck.APIKey = os.Getenv("FACT_CHECK_API_KEY")
	cfg.Output.Verbose = verbose

	return cfg
}

// configureLLM resolves the provider credential for the chosen backend.
// An empty provider disables claim extraction and assessment.
func configureLLM(cfg *model.Config, provider, modelName string) error {
	cfg.LLM.Provider = provider
	if modelName != "" {
		cfg.LLM.Model = modelName
	}

	switch provider {
	case "":
		// LLM stages disabled
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	return nil
}

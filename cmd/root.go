package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hr-signals"
)

type Config struct {
	Pipeline  *PipelineConfig  `mapstructure:"pipeline"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Scorer    *ScorerConfig    `mapstructure:"scorer"`
	AI        *AIConfig        `mapstructure:"ai"`
	Catalog   *CatalogConfig   `mapstructure:"catalog"`
	Metrics   *MetricsConfig   `mapstructure:"metrics"`
}

type PipelineConfig struct {
	MaxBatchSize     int           `mapstructure:"max-batch-size"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Horizons         []int         `mapstructure:"horizons"`
	SuccessThreshold float64       `mapstructure:"success-threshold"`
	IncludeNarrative bool          `mapstructure:"include-narrative"`
}

type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	Dimension int    `mapstructure:"dimension"`
	Model     string `mapstructure:"model"`
}

type ScorerConfig struct {
	Seed       int64 `mapstructure:"seed"`
	Hidden     int   `mapstructure:"hidden"`
	RiskHidden int   `mapstructure:"risk-hidden"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type CatalogConfig struct {
	SkillDemand           map[string]float64  `mapstructure:"skill-demand"`
	DefaultSkillDemand    float64             `mapstructure:"default-skill-demand"`
	ExtraSkills           []string            `mapstructure:"extra-skills"`
	HighDemandDepartments []string            `mapstructure:"high-demand-departments"`
	InterventionUnitCost  float64             `mapstructure:"intervention-unit-cost"`
	Strategies            map[string][]string `mapstructure:"strategies"`
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Namespace  string `mapstructure:"namespace"`
	OutputFile string `mapstructure:"output-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hr-signals scores employee feedback and candidate resumes into retention and hiring signals",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-signals.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics in text format to this file on exit")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("metrics.output-file", rootCmd.PersistentFlags().Lookup("metrics-file"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("pipeline.max-batch-size", 10)
	viper.SetDefault("pipeline.timeout", 10*time.Second)
	viper.SetDefault("pipeline.horizons", []int{1, 3, 6, 12})
	viper.SetDefault("pipeline.success-threshold", 0.85)
	viper.SetDefault("pipeline.include-narrative", true)

	viper.SetDefault("embedding.provider", "hashing")
	viper.SetDefault("embedding.dimension", 384)

	viper.SetDefault("scorer.seed", 42)
	viper.SetDefault("scorer.hidden", 64)
	viper.SetDefault("scorer.risk-hidden", 32)

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.namespace", "hr_signals")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was passed explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

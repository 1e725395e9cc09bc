package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "lead-advisor"
)

type Config struct {
	Listen       string          `mapstructure:"listen"`
	ProjectsFile string          `mapstructure:"projects-file"`
	Pipeline     *PipelineConfig `mapstructure:"pipeline"`
	Advisor      *AdvisorConfig  `mapstructure:"advisor"`
	AI           *AIConfig       `mapstructure:"ai"`
}

type PipelineConfig struct {
	Command []string `mapstructure:"command"`
	Workdir string   `mapstructure:"workdir"`
}

type AdvisorConfig struct {
	Limit          int    `mapstructure:"limit"`
	WeightProfile  string `mapstructure:"weight-profile"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Groq     *GroqConfig   `mapstructure:"groq"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GroqConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	Endpoint   string `mapstructure:"endpoint"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lead-advisor serves qualified steel-project leads and a recommendation advisor",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.groq.api-key-file", "GROQ_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GROQ_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lead-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is only needed for the serve and chat commands.
	if serveCmd.CalledAs() == "" && chatCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.ProjectsFile == "" {
		c.ProjectsFile = "qualified_news.csv"
	}
	if c.Advisor == nil {
		c.Advisor = &AdvisorConfig{}
	}
	if c.Pipeline == nil {
		c.Pipeline = &PipelineConfig{}
	}
}

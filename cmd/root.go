package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

const (
	app = "job-scraper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Search  SearchConfig  `mapstructure:"search"`
	Sources SourcesConfig `mapstructure:"sources"`
	AI      AIConfig      `mapstructure:"ai"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	Addr              string   `mapstructure:"addr"`
	CORSOrigins       []string `mapstructure:"cors-origins"`
	RequestsPerMinute int      `mapstructure:"requests-per-minute"`
}

type SearchConfig struct {
	Target         int           `mapstructure:"target"`
	Concurrency    int           `mapstructure:"concurrency"`
	RPS            float64       `mapstructure:"rps"`
	Burst          int           `mapstructure:"burst"`
	Timeout        time.Duration `mapstructure:"timeout"`
	DisableFilters []string      `mapstructure:"disable-filters"`
	Exclude        struct {
		Companies []string `mapstructure:"companies"`
		Terms     []string `mapstructure:"terms"`
	} `mapstructure:"exclude"`
}

type SourcesConfig struct {
	Headhunter struct {
		Enabled   bool   `mapstructure:"enabled"`
		UserAgent string `mapstructure:"user-agent"`
		Area      int    `mapstructure:"area"`
	} `mapstructure:"headhunter"`
	Adzuna struct {
		Enabled    bool   `mapstructure:"enabled"`
		AppID      string `mapstructure:"app-id"`
		AppIDFile  string `mapstructure:"app-id-file"`
		AppKey     string `mapstructure:"app-key"`
		AppKeyFile string `mapstructure:"app-key-file"`
		Country    string `mapstructure:"country"`
	} `mapstructure:"adzuna"`
	WeWorkRemotely struct {
		Enabled  bool `mapstructure:"enabled"`
		MaxItems int  `mapstructure:"max-items"`
	} `mapstructure:"weworkremotely"`
}

type AIConfig struct {
	Model            string        `mapstructure:"model"`
	APIKey           string        `mapstructure:"api-key"`
	APIKeyFile       string        `mapstructure:"api-key-file"`
	BackupAPIKey     string        `mapstructure:"backup-api-key"`
	BackupAPIKeyFile string        `mapstructure:"backup-api-key-file"`
	MaxRequests      int           `mapstructure:"max-requests"`
	Period           time.Duration `mapstructure:"period"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxLogLength     int           `mapstructure:"max-log-length"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
	Warm    struct {
		Interval time.Duration `mapstructure:"interval"`
		Queries  []string      `mapstructure:"queries"`
		Location string        `mapstructure:"location"`
	} `mapstructure:"warm"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-scraper aggregates job postings from several boards and serves them with an AI career assistant",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// envBindings maps config keys to the environment variables the deployment uses.
var envBindings = map[string]string{
	"ai.api-key":                  "GEMINI_API_KEY",
	"ai.api-key-file":             "GEMINI_API_KEY_FILE",
	"ai.backup-api-key":           "GEMINI_API_KEY_BACKUP",
	"ai.backup-api-key-file":      "GEMINI_API_KEY_BACKUP_FILE",
	"sources.adzuna.app-id":       "ADZUNA_APP_ID",
	"sources.adzuna.app-id-file":  "ADZUNA_APP_ID_FILE",
	"sources.adzuna.app-key":      "ADZUNA_APP_KEY",
	"sources.adzuna.app-key-file": "ADZUNA_APP_KEY_FILE",
	"cache.url":                   "REDIS_URL",
	"server.addr":                 "JOB_SCRAPER_ADDR",
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-scraper.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.cors-origins", []string{"*"})
	viper.SetDefault("server.requests-per-minute", 100)

	viper.SetDefault("search.target", 50)
	viper.SetDefault("search.concurrency", 3)
	viper.SetDefault("search.rps", 2.0)
	viper.SetDefault("search.burst", 2)
	viper.SetDefault("search.timeout", "10s")

	viper.SetDefault("sources.headhunter.enabled", true)
	viper.SetDefault("sources.adzuna.enabled", true)
	viper.SetDefault("sources.adzuna.country", "us")
	viper.SetDefault("sources.weworkremotely.enabled", true)
	viper.SetDefault("sources.weworkremotely.max-items", 5)

	viper.SetDefault("ai.max-requests", 10)
	viper.SetDefault("ai.period", "60s")
	viper.SetDefault("ai.timeout", "10s")
	viper.SetDefault("ai.max-log-length", 200)

	viper.SetDefault("cache.ttl", "30m")
	viper.SetDefault("cache.prefix", "jobs:search")
	viper.SetDefault("cache.warm.interval", "30m")
	viper.SetDefault("cache.warm.location", jobs.DefaultLocation)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional: defaults and environment are enough to serve.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
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

package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/spigell/candidate-ranker/internal/filtering"
	applog "github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app       = "candidate-ranker"
	envPrefix = "CANDIDATE_RANKER"
)

type Config struct {
	Store   *store.Config     `mapstructure:"store"`
	Ranking *RankingConfig    `mapstructure:"ranking"`
	Filters *filtering.Config `mapstructure:"filters"`
}

type RankingConfig struct {
	TopN    int `mapstructure:"top-n"`
	Workers int `mapstructure:"workers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candidate-ranker scores stored résumés against a job requirement and ranks them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every nested key so that AutomaticEnv can override it,
// e.g. CANDIDATE_RANKER_STORE_POSTGRES_DSN_FILE.
func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.backend", store.BackendMemory)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.dsn-file", "")
	v.SetDefault("store.postgres.migrate", false)
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.password-file", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "")
	v.SetDefault("ranking.workers", 0)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %s", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Without a config file every command runs on defaults and env values.
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

	if config.Ranking == nil {
		config.Ranking = &RankingConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// mustConfig loads the configuration and logs it at debug level.
func mustConfig(logger *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Debug("starting with config",
		zap.String("store_backend", storeBackend(config)),
		zap.Int("top_n", config.Ranking.TopN),
		zap.Int("workers", config.Ranking.Workers),
	)

	return config
}

func storeBackend(config *Config) string {
	if config.Store == nil || config.Store.Backend == "" {
		return store.BackendMemory
	}
	return config.Store.Backend
}

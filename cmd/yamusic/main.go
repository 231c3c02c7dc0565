// Package main provides the yamusic CLI application entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"yamusic/internal/core"
	"yamusic/internal/i18n"
	"yamusic/pkg/musiclink"
)

const envPrefix = "YAMUSIC"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "yamusic",
	Short: "yamusic - Yandex Music link resolver",
	Long: `yamusic turns Yandex Music track, album and playlist links into
playable media: metadata, cover art and a direct stream location per track.`,
	SilenceUsage: true,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	flags.Int("log-max-size-mb", defaults.Log.MaxSizeMB, "rotate the log file after this many megabytes")
	flags.Int("log-max-backups", defaults.Log.MaxBackups, "number of rotated log files to keep")
	flags.Int("log-max-age-days", defaults.Log.MaxAgeDays, "days to keep rotated log files")
	flags.String("yandex-token", "", "Yandex Music OAuth token")
	flags.String("yandex-base-url", defaults.Yandex.BaseURL, "Yandex Music API base URL")
	flags.String("yandex-language", defaults.Yandex.Language, "Accept-Language sent to the Yandex Music API")
	flags.Duration("yandex-timeout", defaults.Yandex.Timeout, "timeout of a single Yandex Music API request")
	flags.Int("cover-size", defaults.Resolver.CoverSize,
		fmt.Sprintf("cover art edge in pixels (%s)", coverSizesHelp()))
	flags.Int("stream-concurrency", defaults.Resolver.StreamConcurrency, "concurrent stream lookups per collection")
	flags.String("server-host", defaults.Server.Host, "HTTP server host")
	flags.Int("server-port", defaults.Server.Port, "HTTP server port")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", defaults.App.Language, fmt.Sprintf("Response language (%s)", supportedLangs))
	flags.Int("flood-limit-per-minute", defaults.App.FloodLimitPerMinute, "Maximum API requests per client per minute")
	flags.Uint("queue-capacity", defaults.App.QueueCapacity, "Maximum number of songs in the play queue")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(parseCmd, resolveCmd, serveCmd, envExampleCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()

	var err error
	logger, err = buildLogger(&config.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureYandex(cfg)
	configureResolver(cfg)
	configureServer(cfg)
	configureLog(cfg)
	configureApp(cfg)

	return cfg
}

func configureYandex(cfg *core.Config) {
	cfg.Yandex.Token = viper.GetString("yandex-token")
	cfg.Yandex.BaseURL = viper.GetString("yandex-base-url")
	cfg.Yandex.Language = viper.GetString("yandex-language")
	cfg.Yandex.Timeout = viper.GetDuration("yandex-timeout")
	if cfg.Yandex.Timeout <= 0 {
		cfg.Yandex.Timeout = core.DefaultYandexTimeout
	}
}

func configureResolver(cfg *core.Config) {
	cfg.Resolver.CoverSize = viper.GetInt("cover-size")
	if err := musiclink.CoverSize(cfg.Resolver.CoverSize).Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported cover size %d, using default (%d)\n",
			cfg.Resolver.CoverSize, musiclink.DefaultCoverSize)
		cfg.Resolver.CoverSize = int(musiclink.DefaultCoverSize)
	}
	cfg.Resolver.StreamConcurrency = viper.GetInt("stream-concurrency")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = core.DefaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
}

func configureLog(cfg *core.Config) {
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.File = viper.GetString("log-file")
	cfg.Log.MaxSizeMB = viper.GetInt("log-max-size-mb")
	cfg.Log.MaxBackups = viper.GetInt("log-max-backups")
	cfg.Log.MaxAgeDays = viper.GetInt("log-max-age-days")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
	if cfg.App.FloodLimitPerMinute <= 0 {
		cfg.App.FloodLimitPerMinute = core.DefaultFloodLimitPerMinute
	}

	cfg.App.QueueCapacity = viper.GetUint("queue-capacity")
	if cfg.App.QueueCapacity == 0 {
		cfg.App.QueueCapacity = core.DefaultQueueCapacity
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// buildLogger logs JSON to stderr and, when a file is configured, to a rotated file as well.
func buildLogger(cfg *core.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(fileWriter), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func coverSizesHelp() string {
	sizes := musiclink.SupportedCoverSizes()
	parts := make([]string, 0, len(sizes))
	for _, size := range sizes {
		parts = append(parts, fmt.Sprintf("%d", size))
	}
	return strings.Join(parts, ", ")
}

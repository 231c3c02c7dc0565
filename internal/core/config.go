package core

import (
	"time"

	"yamusic/internal/i18n"
	"yamusic/pkg/musiclink"
)

const (
	// DefaultYandexBaseURL is the upstream API root.
	DefaultYandexBaseURL = "https://api.music.yandex.net:443"
	// DefaultYandexLanguage is sent as Accept-Language to the upstream API.
	DefaultYandexLanguage = "ru"
	// DefaultYandexTimeout bounds a single upstream request.
	DefaultYandexTimeout = 10 * time.Second

	DefaultServerHost         = "0.0.0.0"
	DefaultServerPort         = 8080
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 60 * time.Second

	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 14

	// DefaultFloodLimitPerMinute is the number of resolve requests a client may send per minute.
	DefaultFloodLimitPerMinute = 30
	// DefaultQueueCapacity is the dedup capacity of the in-memory play queue.
	DefaultQueueCapacity = 10000
	// DefaultQueueFalsePositiveRate is the bloom filter false positive rate of the play queue.
	DefaultQueueFalsePositiveRate = 0.001
)

type Config struct {
	Yandex   YandexConfig
	Resolver ResolverConfig
	Server   ServerConfig
	Log      LogConfig
	App      AppConfig
}

type YandexConfig struct {
	Token    string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

type ResolverConfig struct {
	CoverSize         int
	StreamConcurrency int
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig controls the zap logger. File enables a rotated log file next to stderr output.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AppConfig struct {
	Language            string
	FloodLimitPerMinute int
	QueueCapacity       uint
}

func DefaultConfig() *Config {
	return &Config{
		Yandex: YandexConfig{
			BaseURL:  DefaultYandexBaseURL,
			Language: DefaultYandexLanguage,
			Timeout:  DefaultYandexTimeout,
		},
		Resolver: ResolverConfig{
			CoverSize:         int(musiclink.DefaultCoverSize),
			StreamConcurrency: musiclink.DefaultStreamConcurrency,
		},
		Server: ServerConfig{
			Host:         DefaultServerHost,
			Port:         DefaultServerPort,
			ReadTimeout:  DefaultServerReadTimeout,
			WriteTimeout: DefaultServerWriteTimeout,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
		App: AppConfig{
			Language:            i18n.DefaultLanguage,
			FloodLimitPerMinute: DefaultFloodLimitPerMinute,
			QueueCapacity:       DefaultQueueCapacity,
		},
	}
}

// ManagerOptions maps resolver settings onto musiclink options.
func (c *Config) ManagerOptions(recorder musiclink.Recorder) musiclink.Options {
	return musiclink.Options{
		CoverSize:         musiclink.CoverSize(c.Resolver.CoverSize),
		StreamConcurrency: c.Resolver.StreamConcurrency,
		Recorder:          recorder,
	}
}

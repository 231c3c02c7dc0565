package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"yamusic/internal/core"
	"yamusic/internal/flood"
	httpserver "yamusic/internal/http"
	"yamusic/internal/i18n"
	"yamusic/internal/yandex"
	"yamusic/pkg/musiclink"
	"yamusic/pkg/text"
)

var parseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Parse a Yandex Music link without contacting the API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptor, err := musiclink.Parse(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", core.Describe(err, i18n.NewLocalizer(config.App.Language)), err)
		}
		return writeJSON(cmd, descriptorView(descriptor))
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url|text>",
	Short: "Resolve Yandex Music links into playable media",
	Long: `Resolve a Yandex Music link into playable media. When the arguments are free
text, every recognized link in it is resolved in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		adapter, err := buildResolver(nil)
		if err != nil {
			return err
		}

		localizer := i18n.NewLocalizer(config.App.Language)
		for _, link := range linksFromArgs(args) {
			media, err := adapter.Resolve(ctx, link)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", link, core.Describe(err, localizer), err)
			}

			if err := writeJSON(cmd, media); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), core.DescribeMedia(media, localizer))
		}
		return nil
	},
}

// linksFromArgs returns the recognized links in args, or the joined args when none is found
// so the resolver reports why the input is not a link.
func linksFromArgs(args []string) []string {
	input := strings.Join(args, " ")
	if links := text.NewParser().ExtractLinks(input); len(links) > 0 {
		return links
	}
	return []string{strings.TrimSpace(input)}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP resolution API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

var envExampleCmd = &cobra.Command{
	Use:   "env-example",
	Short: "Generate .env.example file with all configuration options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return generateEnvExample(cmd.Root())
	},
}

// buildResolver wires the API client, the pipeline and the host adapter.
func buildResolver(recorder musiclink.Recorder) (*musiclink.ManagerAdapter, error) {
	client, err := yandex.NewClient(&config.Yandex, logger.Named("yandex"))
	if err != nil {
		return nil, fmt.Errorf("failed to create Yandex Music client: %w", err)
	}

	manager, err := musiclink.NewManager(client, config.ManagerOptions(recorder), logger.Named("musiclink"))
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	return musiclink.NewManagerAdapter(manager), nil
}

func runServer(ctx context.Context) error {
	logger.Info("Starting yamusic",
		zap.String("language", config.App.Language),
		zap.Int("cover_size", config.Resolver.CoverSize),
		zap.Bool("authenticated", config.Yandex.Token != ""))

	metrics := httpserver.NewMetrics()
	adapter, err := buildResolver(metrics)
	if err != nil {
		return err
	}

	floodgate := flood.New(config.App.FloodLimitPerMinute)
	defer floodgate.Stop()

	server := httpserver.NewServer(&config.Server, httpserver.Dependencies{
		Resolver:  adapter,
		Queue:     core.NewQueue(config.App.QueueCapacity, logger.Named("queue")),
		Floodgate: floodgate,
		Metrics:   metrics,
		Language:  config.App.Language,
	}, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Service error", zap.Error(err))
		return err
	}

	logger.Info("yamusic stopped")
	return nil
}

type descriptorJSON struct {
	Kind        string `json:"kind"`
	OriginalURL string `json:"originalUrl"`
	TrackID     string `json:"trackId,omitempty"`
	AlbumID     string `json:"albumId,omitempty"`
	OwnerID     string `json:"ownerId,omitempty"`
	PlaylistID  string `json:"playlistId,omitempty"`
}

func descriptorView(d musiclink.LinkDescriptor) descriptorJSON {
	return descriptorJSON{
		Kind:        d.Kind.String(),
		OriginalURL: d.OriginalURL,
		TrackID:     d.TrackID.String(),
		AlbumID:     d.AlbumID.String(),
		OwnerID:     d.OwnerID,
		PlaylistID:  d.PlaylistID.String(),
	}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

package musiclink

import (
	"context"
	"crypto/md5" //nolint:gosec // Required by the provider's link signing scheme.
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// preferredCodec is chosen over other codecs when available.
	preferredCodec = "mp3"
	// downloadSignSalt is the constant prefix of the provider's download link signature.
	downloadSignSalt = "XGRlBW9FXlekgbPrRHuSiA"
)

var (
	errNoDownloadOptions = errors.New("no download options")
	errBadDownloadInfo   = errors.New("incomplete download info")
)

// downloadOption is one entry of the download-info listing.
type downloadOption struct {
	Codec           string
	BitrateInKbps   int64
	DownloadInfoURL string
	Direct          bool
}

// downloadInfo is the XML document behind a non-direct downloadInfoUrl.
type downloadInfo struct {
	XMLName xml.Name `xml:"download-info"`
	Host    string   `xml:"host"`
	Path    string   `xml:"path"`
	TS      string   `xml:"ts"`
	S       string   `xml:"s"`
}

// StreamLocator obtains a time-limited playable URL for a track.
// Every error it returns is a *StreamError.
type StreamLocator struct {
	client MetadataClient
	logger *zap.Logger
}

// NewStreamLocator creates a stream locator on top of an upstream client.
func NewStreamLocator(client MetadataClient, logger *zap.Logger) *StreamLocator {
	return &StreamLocator{client: client, logger: logger}
}

// StreamURL fetches the download options of a track, picks the best one and, unless it is
// already direct, resolves its download-info document into a signed direct link.
func (l *StreamLocator) StreamURL(ctx context.Context, trackID Identifier) (string, error) {
	body, err := l.client.DownloadInfo(ctx, trackID)
	if err != nil {
		return "", &StreamError{TrackID: trackID, Err: err}
	}

	option, err := bestDownloadOption(body)
	if err != nil {
		return "", &StreamError{TrackID: trackID, Err: err}
	}

	if option.Direct {
		return option.DownloadInfoURL, nil
	}

	doc, err := l.client.Fetch(ctx, option.DownloadInfoURL)
	if err != nil {
		return "", &StreamError{TrackID: trackID, Err: fmt.Errorf("failed to fetch download info: %w", err)}
	}

	link, err := signedDownloadURL(doc)
	if err != nil {
		return "", &StreamError{TrackID: trackID, Err: err}
	}

	l.logger.Debug("Located stream",
		zap.String("track_id", trackID.String()),
		zap.String("codec", option.Codec),
		zap.Int64("bitrate_kbps", option.BitrateInKbps))
	return link, nil
}

// bestDownloadOption picks the highest-bitrate mp3 option, falling back to the
// highest bitrate of any codec.
func bestDownloadOption(body []byte) (downloadOption, error) {
	if !gjson.ValidBytes(body) {
		return downloadOption{}, errMalformedJSON
	}

	var best, bestPreferred *downloadOption
	for _, entry := range gjson.ParseBytes(body).Array() {
		option := downloadOption{
			Codec:           strings.ToLower(entry.Get("codec").String()),
			BitrateInKbps:   entry.Get("bitrateInKbps").Int(),
			DownloadInfoURL: entry.Get("downloadInfoUrl").String(),
			Direct:          entry.Get("direct").Bool(),
		}
		if option.DownloadInfoURL == "" {
			continue
		}
		if best == nil || option.BitrateInKbps > best.BitrateInKbps {
			candidate := option
			best = &candidate
		}
		if option.Codec == preferredCodec &&
			(bestPreferred == nil || option.BitrateInKbps > bestPreferred.BitrateInKbps) {
			candidate := option
			bestPreferred = &candidate
		}
	}

	switch {
	case bestPreferred != nil:
		return *bestPreferred, nil
	case best != nil:
		return *best, nil
	default:
		return downloadOption{}, errNoDownloadOptions
	}
}

// signedDownloadURL turns a download-info document into a direct link:
// https://{host}/get-mp3/{md5(salt + path[1:] + s)}/{ts}{path}.
func signedDownloadURL(doc []byte) (string, error) {
	var info downloadInfo
	if err := xml.Unmarshal(doc, &info); err != nil {
		return "", fmt.Errorf("failed to decode download info: %w", err)
	}
	if info.Host == "" || len(info.Path) < 2 || info.TS == "" || info.S == "" {
		return "", errBadDownloadInfo
	}

	sum := md5.Sum([]byte(downloadSignSalt + info.Path[1:] + info.S)) //nolint:gosec // Provider signing scheme.
	return fmt.Sprintf("https://%s/get-mp3/%s/%s%s", info.Host, hex.EncodeToString(sum[:]), info.TS, info.Path), nil
}

package pipeline

import (
	"context"
	"log/slog"

	"github.com/quakefeed/knet-etl/internal/config"
	"github.com/quakefeed/knet-etl/internal/domain"
	"github.com/quakefeed/knet-etl/internal/knet"
)

// WaveformTransformer implements Transformer by decoding K-NET/KiK-net ASCII
// payloads with the configured encoding and station-name handling.
type WaveformTransformer struct {
	opts   []knet.Option
	logger *slog.Logger
}

// NewTransformer creates a WaveformTransformer from the service configuration.
func NewTransformer(cfg *config.Config, logger *slog.Logger) *WaveformTransformer {
	var opts []knet.Option
	if cfg.Encoding != nil {
		opts = append(opts, knet.WithEncoding(cfg.Encoding))
	}
	if cfg.ConvertStationName {
		opts = append(opts, knet.ConvertStationName(true))
	}
	return &WaveformTransformer{opts: opts, logger: logger}
}

func (t *WaveformTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.WaveformEvent, error) {
	return domain.ParseRawEvent(raw, t.opts...)
}

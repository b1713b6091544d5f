package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quakefeed/knet-etl/internal/config"
	"github.com/quakefeed/knet-etl/internal/domain"
)

// drainWait bounds how long a batch waits for follow-up messages once the
// first one has arrived.
const drainWait = 500 * time.Millisecond

// Reader consumes raw waveform files from the source topic as part of a
// consumer group. It implements pipeline.BatchExtractor.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		GroupID:     cfg.KafkaGroupID,
		Topic:       cfg.KafkaSourceTopic,
		MinBytes:    1,
		MaxBytes:    10 << 20, // a 300 s 100 Hz ASCII file is ~250 KB; leave headroom
		StartOffset: kafkago.FirstOffset,
	})
	return &Reader{reader: r, logger: logger}
}

// ExtractBatch blocks for the first available message, then drains up to
// batchSize messages without waiting longer than drainWait for each follow-up.
// Offsets are committed through the per-event Commit callback, not here.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	events := []domain.RawEvent{r.toRawEvent(first)}

	for len(events) < batchSize {
		fetchCtx, cancel := context.WithTimeout(ctx, drainWait)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				r.logger.Warn("batch drain stopped early", "error", err)
			}
			break
		}
		events = append(events, r.toRawEvent(msg))
	}
	return events, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// toRawEvent maps a fetched message and attaches an offset-commit callback
// bound to this reader's consumer group.
func (r *Reader) toRawEvent(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

// mapMessageToRawEvent converts a Kafka message into a domain RawEvent.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}

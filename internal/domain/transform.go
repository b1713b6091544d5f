package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/quakefeed/knet-etl/internal/knet"
)

// FilenameHeader is the Kafka message header carrying the original NIED
// filename, set by the collector.
const FilenameHeader = "filename"

// ParseRawEvent decodes a RawEvent's payload as a K-NET/KiK-net ASCII file
// and wraps the record in a WaveformEvent. The given options (encoding,
// station-name conversion) are passed through to the decoder.
func ParseRawEvent(raw RawEvent, opts ...knet.Option) (WaveformEvent, error) {
	rec, err := knet.Decode(bytes.NewReader(raw.Value), opts...)
	if err != nil {
		return WaveformEvent{}, fmt.Errorf("parse raw event: %w", err)
	}

	return WaveformEvent{
		ID:         generateID(rec),
		Record:     *rec,
		SourceFile: raw.Headers[FilenameHeader],
		DecodedAt:  clock.Now().UTC(),
	}, nil
}

// generateID produces a deterministic ID from the fields that uniquely name a
// channel recording. Reprocessing the same raw file yields the same ID, so
// downstream upserts stay idempotent under replay.
func generateID(rec *knet.Record) string {
	input := fmt.Sprintf("%s|%s|%s|%s",
		rec.NetworkCode, rec.StationCode, rec.ChannelCode,
		rec.RecordStartTime.Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	return rec.StationCode + "-" + short
}

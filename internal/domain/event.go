package domain

import (
	"context"
	"time"

	"github.com/quakefeed/knet-etl/internal/knet"
)

// RawEvent represents an unprocessed message from the source topic: one
// complete K-NET/KiK-net ASCII file as published by the collector.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// WaveformEvent is the decoded, identity-carrying representation written to
// the sink topic.
type WaveformEvent struct {
	ID     string      `json:"id"`
	Record knet.Record `json:"record"`

	// SourceFile is the original NIED filename, when the collector supplied it.
	SourceFile string    `json:"source_file,omitempty"`
	DecodedAt  time.Time `json:"decoded_at"`
}

// Package domain models decoded K-NET/KiK-net waveform events.
//
// # Data Source
//
// Raw events originate from NIED's strong-motion download service
// (https://www.kyoshin.bosai.go.jp). The upstream collector fetches the
// per-channel ASCII files (.NS/.EW/.UD and the KiK-net .NS1...UD2 variants)
// and publishes each file verbatim as one Kafka message, with the original
// filename in a "filename" message header.
//
// # Event Identity
//
// Waveform event IDs are deterministic SHA-256 hashes of
// network|station|channel|record-start-time. A given channel recording hashes
// to the same ID on every replay, which keeps downstream upserts idempotent
// without distributed coordination. See [generateID].
//
// The decode itself — header grammar, JST→UTC correction, calibration and
// channel conventions — lives in the knet package; this package wraps the
// decoded record with pipeline-facing identity and provenance fields.
package domain

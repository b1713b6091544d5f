package knet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

// NetworkCode is the FDSN network code of the National Research Institute for
// Earth Science and Disaster Resilience (NIED), which operates K-NET and
// KiK-net.
const NetworkCode = "BO"

// Record is a fully decoded K-NET/KiK-net ASCII file: the header metadata plus
// the raw acceleration time series. A Record is never partially populated;
// Decode returns either a complete record or an error.
type Record struct {
	Header
	NetworkCode string    `json:"network_code"`
	SampleCount int       `json:"sample_count"`
	Samples     []float64 `json:"samples"`
}

type options struct {
	enc                encoding.Encoding
	convertStationName bool
}

// Option configures Decode.
type Option func(*options)

// WithEncoding sets the character encoding of the stream. The default is
// UTF-8, which covers the plain-ASCII files; Shift_JIS distributions need
// japanese.ShiftJIS here.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) { o.enc = enc }
}

// ConvertStationName controls whether station codes longer than 5 characters
// are split into a 2-character location suffix and the remaining station code.
func ConvertStationName(convert bool) Option {
	return func(o *options) { o.convertStationName = convert }
}

// Decode reads a complete K-NET/KiK-net ASCII file from r. It makes a single
// forward pass: header lines up to and including the "Memo." line, then every
// remaining whitespace-delimited token as one acceleration sample. Errors are
// classified by the package sentinels and always abort the whole decode.
func Decode(r io.Reader, opts ...Option) (*Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.enc != nil {
		r = o.enc.NewDecoder().Reader(r)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines, err := collectHeaderLines(sc)
	if err != nil {
		return nil, err
	}
	hdr, err := parseHeader(lines, o)
	if err != nil {
		return nil, err
	}
	samples, err := parseSamples(sc, len(lines))
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("knet: read: %w", err)
	}

	return &Record{
		Header:      hdr,
		NetworkCode: NetworkCode,
		SampleCount: len(samples),
		Samples:     samples,
	}, nil
}

// collectHeaderLines reads lines up to and including the first one starting
// with "Memo". Reaching end of stream first means the header is incomplete.
func collectHeaderLines(sc *bufio.Scanner) ([]string, error) {
	var lines []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		lines = append(lines, line)
		if strings.HasPrefix(line, "Memo") {
			return lines, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("knet: read header: %w", err)
	}
	return nil, fmt.Errorf("%w: %d lines read", ErrPrematureEndOfHeader, len(lines))
}

// parseSamples consumes the rest of the stream, parsing every token on every
// line as a float64. No assumption is made about tokens per line; the K-NET
// convention is 8 columns but trailing lines are short.
func parseSamples(sc *bufio.Scanner, headerLines int) ([]float64, error) {
	var samples []float64
	lineNo := headerLines
	for sc.Scan() {
		lineNo++
		for _, tok := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q on line %d", ErrMalformedSampleValue, tok, lineNo)
			}
			samples = append(samples, v)
		}
	}
	return samples, nil
}

// Command validate checks K-NET/KiK-net ASCII files on disk without touching
// Kafka: it sniffs each file, decodes it, and reports the decoded metadata or
// the classified decode error. Useful for vetting a collector drop directory
// before replaying it into the pipeline.
//
// Usage:
//
//	go run ./cmd/validate [-encoding shift_jis] [-convert-station-name] FILE...
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/quakefeed/knet-etl/internal/knet"
	"github.com/quakefeed/knet-etl/internal/observability"
)

// result tracks the outcome for one file.
type result struct {
	path   string
	record *knet.Record
	err    error
}

func main() {
	encodingName := flag.String("encoding", "", "IANA charset name of the input files (default UTF-8/ASCII)")
	convertStation := flag.Bool("convert-station-name", false, "split station codes longer than 5 characters into station + location")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	enc, err := resolveEncoding(*encodingName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(flag.Args(), enc, *convertStation); code != 0 {
		os.Exit(code)
	}
}

func run(paths []string, enc encoding.Encoding, convertStation bool) int {
	var opts []knet.Option
	if enc != nil {
		opts = append(opts, knet.WithEncoding(enc))
	}
	if convertStation {
		opts = append(opts, knet.ConvertStationName(true))
	}

	results := make([]result, 0, len(paths))
	for _, path := range paths {
		results = append(results, checkFile(path, enc, opts))
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("FAIL  %s\n      %s: %v\n", r.path, observability.ErrorKind(r.err), r.err)
			continue
		}
		rec := r.record
		fmt.Printf("OK    %s\n      %s.%s %s  start=%s  rate=%dHz  samples=%d  max=%.3fgal\n",
			r.path,
			rec.NetworkCode, rec.StationCode, rec.ChannelCode,
			rec.RecordStartTime.Format(time.RFC3339),
			rec.SamplingRateHz, rec.SampleCount, rec.MaxAccelerationGal)
	}

	fmt.Printf("\n%d files checked, %d failed\n", len(results), failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// checkFile sniffs and decodes one file. Sniffing consumes the label bytes,
// so the file is reopened for the decode pass.
func checkFile(path string, enc encoding.Encoding, opts []knet.Option) result {
	f, err := os.Open(path)
	if err != nil {
		return result{path: path, err: err}
	}
	matched := knet.IsKNETASCII(f, enc)
	f.Close()

	if !matched {
		return result{path: path, err: fmt.Errorf("not a K-NET/KiK-net ASCII file")}
	}

	f, err = os.Open(path)
	if err != nil {
		return result{path: path, err: err}
	}
	defer f.Close()

	rec, err := knet.Decode(f, opts...)
	if err != nil {
		return result{path: path, err: err}
	}
	return result{path: path, record: rec}
}

func resolveEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

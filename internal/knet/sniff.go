package knet

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding"
)

// formatLabel is the first header label; its presence at byte zero identifies
// the format.
const formatLabel = "Origin Time"

// IsKNETASCII reports whether r starts with a K-NET/KiK-net ASCII header. It
// reads exactly len("Origin Time") characters, decoded with enc (nil means
// UTF-8/ASCII), and never returns an error: short streams, read failures, and
// undecodable bytes all report false.
//
// The read is not undone; callers that want to decode the same stream must
// reopen or seek back first.
func IsKNETASCII(r io.Reader, enc encoding.Encoding) bool {
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReaderSize(r, len(formatLabel)*4)
	var sb strings.Builder
	for range len(formatLabel) {
		ch, _, err := br.ReadRune()
		if err != nil {
			return false
		}
		sb.WriteRune(ch)
	}
	return sb.String() == formatLabel
}

package knet

import "errors"

// Sentinel errors returned by Decode, wrapped with per-line context.
// Classify with errors.Is.
var (
	// ErrHeaderLabelMismatch means a header line did not start with the label
	// expected at its position.
	ErrHeaderLabelMismatch = errors.New("knet: header label mismatch")

	// ErrHeaderLineCount means the header block did not contain exactly 17 lines.
	ErrHeaderLineCount = errors.New("knet: header line count mismatch")

	// ErrPrematureEndOfHeader means the stream ended before a "Memo" line.
	ErrPrematureEndOfHeader = errors.New("knet: stream ended before Memo line")

	// ErrStationNameTooLong means the station code exceeds 7 characters after
	// the optional location split.
	ErrStationNameTooLong = errors.New("knet: station name longer than 7 characters")

	// ErrMalformedNumericField means a required header token failed numeric parsing.
	ErrMalformedNumericField = errors.New("knet: malformed numeric field")

	// ErrMalformedCalibrationField means the Scale Factor token is not of the
	// form "<numerator>/<denominator>".
	ErrMalformedCalibrationField = errors.New("knet: malformed calibration field")

	// ErrMalformedSampleValue means a token in the sample block failed numeric parsing.
	ErrMalformedSampleValue = errors.New("knet: malformed sample value")
)

package knet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// headerLineCount is the fixed number of labeled lines in a header block.
	headerLineCount = 17

	// jstOffset corrects Japan Standard Time timestamps to UTC.
	jstOffset = 9 * time.Hour

	// triggerDelay is the fixed delay the data logger adds to Record Time.
	triggerDelay = 15 * time.Second

	// timeLayout is the header timestamp layout, locale-independent.
	timeLayout = "2006/01/02 15:04:05"

	// maxStationLen is the longest station code the downstream formats accept.
	maxStationLen = 7
)

// Header holds the metadata block of a K-NET/KiK-net ASCII file, with all
// timestamps converted to UTC and the calibration factor in (m/s²)/count.
type Header struct {
	EventOriginTime    time.Time `json:"event_origin_time"`
	EventLatitude      float64   `json:"event_latitude"`
	EventLongitude     float64   `json:"event_longitude"`
	EventDepthKm       float64   `json:"event_depth_km"`
	EventMagnitude     float64   `json:"event_magnitude"`
	StationCode        string    `json:"station_code"`
	LocationCode       string    `json:"location_code,omitempty"`
	StationLatitude    float64   `json:"station_latitude"`
	StationLongitude   float64   `json:"station_longitude"`
	StationElevationM  float64   `json:"station_elevation_m"`
	RecordStartTime    time.Time `json:"record_start_time"`
	SamplingRateHz     int       `json:"sampling_rate_hz"`
	DurationS          float64   `json:"duration_s"`
	ChannelCode        string    `json:"channel_code"`
	CalibrationFactor  float64   `json:"calibration_factor"`
	MaxAccelerationGal float64   `json:"max_acceleration_gal"`
	LastCorrectionTime time.Time `json:"last_correction_time"`
	Comment            string    `json:"comment,omitempty"`
}

// kikNetChannels maps the numeric Dir. codes of a KiK-net surface/borehole
// sensor pair to named directional channels.
var kikNetChannels = map[string]string{
	"1": "NS1", "2": "EW1", "3": "UD1",
	"4": "NS2", "5": "EW2", "6": "UD2",
}

// lineSpec describes one header line: the label it must start with and how its
// whitespace-split fields populate the header.
type lineSpec struct {
	label string
	parse func(h *Header, fields []string, opts options) error
}

// headerTable is the full header grammar in file order. parseHeader walks it
// position by position.
var headerTable = []lineSpec{
	{"Origin Time", func(h *Header, f []string, _ options) (err error) {
		h.EventOriginTime, err = jstTimestamp(f, "Origin Time")
		return err
	}},
	{"Lat.", func(h *Header, f []string, _ options) (err error) {
		h.EventLatitude, err = floatField(f, 1, "Lat.")
		return err
	}},
	{"Long.", func(h *Header, f []string, _ options) (err error) {
		h.EventLongitude, err = floatField(f, 1, "Long.")
		return err
	}},
	{"Depth. (km)", func(h *Header, f []string, _ options) (err error) {
		h.EventDepthKm, err = floatField(f, 2, "Depth. (km)")
		return err
	}},
	{"Mag.", func(h *Header, f []string, _ options) (err error) {
		h.EventMagnitude, err = floatField(f, 1, "Mag.")
		return err
	}},
	{"Station Code", func(h *Header, f []string, opts options) error {
		code, err := stringField(f, 2, "Station Code")
		if err != nil {
			return err
		}
		return h.setStation(code, opts.convertStationName)
	}},
	{"Station Lat.", func(h *Header, f []string, _ options) (err error) {
		h.StationLatitude, err = floatField(f, 2, "Station Lat.")
		return err
	}},
	{"Station Long.", func(h *Header, f []string, _ options) (err error) {
		h.StationLongitude, err = floatField(f, 2, "Station Long.")
		return err
	}},
	{"Station Height(m)", func(h *Header, f []string, _ options) (err error) {
		h.StationElevationM, err = floatField(f, 2, "Station Height(m)")
		return err
	}},
	{"Record Time", func(h *Header, f []string, _ options) error {
		t, err := jstTimestamp(f, "Record Time")
		if err != nil {
			return err
		}
		// The data logger stamps Record Time triggerDelay late.
		h.RecordStartTime = t.Add(-triggerDelay)
		return nil
	}},
	{"Sampling Freq(Hz)", func(h *Header, f []string, _ options) error {
		tok, err := stringField(f, 2, "Sampling Freq(Hz)")
		if err != nil {
			return err
		}
		digits := leadingDigits(tok)
		if digits == "" {
			return fmt.Errorf("%w: Sampling Freq(Hz) %q has no leading digits", ErrMalformedNumericField, tok)
		}
		h.SamplingRateHz, err = strconv.Atoi(digits)
		if err != nil {
			return fmt.Errorf("%w: Sampling Freq(Hz) %q: %v", ErrMalformedNumericField, tok, err)
		}
		return nil
	}},
	{"Duration Time(s)", func(h *Header, f []string, _ options) (err error) {
		h.DurationS, err = floatField(f, 2, "Duration Time(s)")
		return err
	}},
	{"Dir.", func(h *Header, f []string, _ options) error {
		tok, err := stringField(f, 1, "Dir.")
		if err != nil {
			return err
		}
		ch := strings.TrimSpace(strings.ReplaceAll(tok, "-", ""))
		if named, ok := kikNetChannels[ch]; ok {
			ch = named
		}
		h.ChannelCode = ch
		return nil
	}},
	{"Scale Factor", func(h *Header, f []string, _ options) (err error) {
		tok, err := stringField(f, 2, "Scale Factor")
		if err != nil {
			return err
		}
		h.CalibrationFactor, err = parseCalibration(tok)
		return err
	}},
	{"Max. Acc. (gal)", func(h *Header, f []string, _ options) (err error) {
		h.MaxAccelerationGal, err = floatField(f, 3, "Max. Acc. (gal)")
		return err
	}},
	{"Last Correction", func(h *Header, f []string, _ options) (err error) {
		h.LastCorrectionTime, err = jstTimestamp(f, "Last Correction")
		return err
	}},
	{"Memo.", func(h *Header, f []string, _ options) error {
		// The memo body is optional.
		if len(f) > 1 {
			h.Comment = strings.Join(f[1:], " ")
		}
		return nil
	}},
}

// parseHeader checks each collected line against the grammar in order and
// returns the populated header. The block must contain exactly
// headerLineCount lines.
func parseHeader(lines []string, opts options) (Header, error) {
	var h Header
	for i, spec := range headerTable {
		if i >= len(lines) {
			return Header{}, fmt.Errorf("%w: expected %d lines, got %d", ErrHeaderLineCount, headerLineCount, len(lines))
		}
		if !strings.HasPrefix(lines[i], spec.label) {
			return Header{}, fmt.Errorf("%w: expected line %d to start with %q, got %q",
				ErrHeaderLabelMismatch, i+1, spec.label, lines[i])
		}
		if err := spec.parse(&h, strings.Fields(lines[i]), opts); err != nil {
			return Header{}, err
		}
	}
	if len(lines) != headerLineCount {
		return Header{}, fmt.Errorf("%w: expected %d lines, got %d", ErrHeaderLineCount, headerLineCount, len(lines))
	}
	return h, nil
}

// setStation stores the station code, optionally splitting codes longer than
// 5 characters into station + 2-character location suffix so they survive
// miniSEED's station field.
func (h *Header) setStation(code string, split bool) error {
	location := ""
	if split && len(code) > 5 {
		location = code[len(code)-2:]
		code = code[:len(code)-2]
	}
	if len(code) > maxStationLen {
		return fmt.Errorf("%w: %q", ErrStationNameTooLong, code)
	}
	h.StationCode = code
	h.LocationCode = location
	return nil
}

// jstTimestamp parses fields [2] and [3] as a "YYYY/MM/DD HH:MM:SS" Japan
// Standard Time timestamp and converts it to UTC.
func jstTimestamp(fields []string, label string) (time.Time, error) {
	if len(fields) < 4 {
		return time.Time{}, fmt.Errorf("%w: %s line has %d fields, want at least 4", ErrMalformedNumericField, label, len(fields))
	}
	t, err := time.Parse(timeLayout, fields[2]+" "+fields[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s timestamp %q: %v", ErrMalformedNumericField, label, fields[2]+" "+fields[3], err)
	}
	return t.Add(-jstOffset), nil
}

// parseCalibration converts a "<gal>/<counts>" Scale Factor token to a
// (m/s²)/count multiplier. The numerator may carry a unit suffix such as
// "(gal)" which is discarded.
func parseCalibration(tok string) (float64, error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q is not <numerator>/<denominator>", ErrMalformedCalibrationField, tok)
	}
	digits := leadingDigits(parts[0])
	if digits == "" {
		return 0, fmt.Errorf("%w: numerator %q has no leading digits", ErrMalformedCalibrationField, parts[0])
	}
	num, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: numerator %q: %v", ErrMalformedCalibrationField, parts[0], err)
	}
	denom, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: denominator %q: %v", ErrMalformedCalibrationField, parts[1], err)
	}
	// 0.01 converts gal (cm/s²) to m/s².
	return 0.01 * num / denom, nil
}

func floatField(fields []string, idx int, label string) (float64, error) {
	tok, err := stringField(fields, idx, label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q: %v", ErrMalformedNumericField, label, tok, err)
	}
	return v, nil
}

func stringField(fields []string, idx int, label string) (string, error) {
	if idx >= len(fields) {
		return "", fmt.Errorf("%w: %s line has %d fields, want at least %d", ErrMalformedNumericField, label, len(fields), idx+1)
	}
	return fields[idx], nil
}

// leadingDigits returns the longest run of ASCII digits at the start of s.
func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

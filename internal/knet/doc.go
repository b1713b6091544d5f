// Package knet decodes the K-NET/KiK-net strong-motion ASCII format published
// by NIED (https://www.kyoshin.bosai.go.jp).
//
// # File Layout
//
// A file is a fixed 17-line labeled header followed by whitespace-delimited
// acceleration samples until end of file:
//
//	Origin Time       2011/03/11 14:46:00
//	Lat.              38.103
//	Long.             142.860
//	Depth. (km)       24
//	Mag.              9.0
//	Station Code      MYG004
//	Station Lat.      38.7292
//	Station Long.     141.0217
//	Station Height(m) 21
//	Record Time       2011/03/11 14:46:45
//	Sampling Freq(Hz) 100Hz
//	Duration Time(s)  300
//	Dir.              N-S
//	Scale Factor      7845/8223790
//	Max. Acc. (gal)   2699.868
//	Last Correction   2011/03/10 14:30:00
//	Memo.
//	    -102     -97     -93     -94     -98 ...
//
// Header lines must appear in exactly this order; any deviation fails the
// decode with a typed error.
//
// # Unit and Time Conventions
//
// All header timestamps are Japan Standard Time (UTC+9) and are converted to
// UTC on decode. Record Time additionally carries a fixed 15 second delay
// introduced by the K-NET/KiK-net data logger, which is subtracted before the
// timezone correction.
//
// The Scale Factor line has the form "<gal>(gal)/<counts>"; the calibration
// factor is 0.01 * gal / counts, converting raw digitizer counts to m/s².
//
// KiK-net files number their channels 1-6 for the two 3-axis sensors of a
// surface/borehole pair; Dir. codes 1-6 are remapped to NS1, EW1, UD1, NS2,
// EW2, UD2. Every other direction code is kept verbatim after hyphen
// stripping (N-S → NS).
//
// Files are distributed in plain ASCII or Shift_JIS (the Memo line may carry
// Japanese text); pass an x/text encoding via [WithEncoding] when needed.
package knet

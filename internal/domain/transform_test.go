package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakefeed/knet-etl/internal/knet"
)

const testKNETFile = `Origin Time       2011/03/11 14:46:00
Lat.              38.103
Long.             142.860
Depth. (km)       24
Mag.              9.0
Station Code      MYG004
Station Lat.      38.7292
Station Long.     141.0217
Station Height(m) 21
Record Time       2011/03/11 14:46:45
Sampling Freq(Hz) 100Hz
Duration Time(s)  300
Dir.              N-S
Scale Factor      7845(gal)/8223790
Max. Acc. (gal)   2699.868
Last Correction   2011/03/11 14:46:30
Memo.
    -102     -97     -93     -94
     -98    -102
`

func TestParseRawEvent(t *testing.T) {
	frozen := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	t.Run("valid file", func(t *testing.T) {
		raw := RawEvent{
			Value:   []byte(testKNETFile),
			Headers: map[string]string{FilenameHeader: "MYG0041103111446.NS"},
		}

		event, err := ParseRawEvent(raw)
		require.NoError(t, err)

		assert.Equal(t, "MYG004", event.Record.StationCode)
		assert.Equal(t, "NS", event.Record.ChannelCode)
		assert.Equal(t, 6, event.Record.SampleCount)
		assert.Equal(t, "MYG0041103111446.NS", event.SourceFile)
		assert.Equal(t, frozen, event.DecodedAt)
		assert.True(t, strings.HasPrefix(event.ID, "MYG004-"))
	})

	t.Run("deterministic ID", func(t *testing.T) {
		raw := RawEvent{Value: []byte(testKNETFile)}

		event1, err := ParseRawEvent(raw)
		require.NoError(t, err)
		event2, err := ParseRawEvent(raw)
		require.NoError(t, err)

		assert.Equal(t, event1.ID, event2.ID)
	})

	t.Run("channel distinguishes ID", func(t *testing.T) {
		ew := strings.Replace(testKNETFile, "Dir.              N-S", "Dir.              E-W", 1)

		nsEvent, err := ParseRawEvent(RawEvent{Value: []byte(testKNETFile)})
		require.NoError(t, err)
		ewEvent, err := ParseRawEvent(RawEvent{Value: []byte(ew)})
		require.NoError(t, err)

		assert.NotEqual(t, nsEvent.ID, ewEvent.ID)
	})

	t.Run("options forwarded", func(t *testing.T) {
		long := strings.Replace(testKNETFile, "Station Code      MYG004", "Station Code      ABCDEFGH", 1)

		event, err := ParseRawEvent(RawEvent{Value: []byte(long)}, knet.ConvertStationName(true))
		require.NoError(t, err)
		assert.Equal(t, "ABCDEF", event.Record.StationCode)
		assert.Equal(t, "GH", event.Record.LocationCode)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("not a knet file")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
		assert.ErrorIs(t, err, knet.ErrPrematureEndOfHeader)
	})
}

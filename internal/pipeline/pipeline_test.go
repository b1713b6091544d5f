package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakefeed/knet-etl/internal/config"
	"github.com/quakefeed/knet-etl/internal/domain"
	"github.com/quakefeed/knet-etl/internal/observability"
	"github.com/quakefeed/knet-etl/internal/pipeline"
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
`

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockLoader struct {
	loaded []domain.WaveformEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.WaveformEvent) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func newTestTransformer(t *testing.T) *pipeline.WaveformTransformer {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return pipeline.NewTransformer(cfg, slog.Default())
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var committed atomic.Int64
	raw := domain.RawEvent{
		Key:     []byte("MYG0041103111446.NS"),
		Value:   []byte(testKNETFile),
		Headers: map[string]string{domain.FilenameHeader: "MYG0041103111446.NS"},
		Commit: func(context.Context) error {
			committed.Add(1)
			return nil
		},
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, newTestTransformer(t), ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	require.Len(t, ldr.loaded, 1)
	event := ldr.loaded[0]
	assert.Equal(t, "MYG004", event.Record.StationCode)
	assert.Equal(t, "NS", event.Record.ChannelCode)
	assert.Equal(t, 4, event.Record.SampleCount)
	assert.Equal(t, "MYG0041103111446.NS", event.SourceFile)
	assert.Equal(t, int64(1), committed.Load())
	assert.NoError(t, p.CheckReadiness(ctx))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches — will block
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, newTestTransformer(t), ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_SkipsPoisonMessage(t *testing.T) {
	var poisonCommitted atomic.Bool
	poison := domain.RawEvent{
		Key:   []byte("bad"),
		Value: []byte("Origin Time only, then garbage"),
		Commit: func(context.Context) error {
			poisonCommitted.Store(true)
			return nil
		},
	}
	good := domain.RawEvent{Key: []byte("good"), Value: []byte(testKNETFile)}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{poison, good}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, newTestTransformer(t), ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))

	// The undecodable message is dropped and committed; the valid one loads.
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "MYG004", ldr.loaded[0].Record.StationCode)
	assert.True(t, poisonCommitted.Load())
}

func TestPipeline_CheckReadiness_NotReady(t *testing.T) {
	p := pipeline.New(&mockExtractor{}, newTestTransformer(t), &mockLoader{},
		slog.Default(), observability.NewMetricsForTesting(), 50)

	err := p.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not decoded any records")
}

func TestPipeline_Run_LoadFailureRetries(t *testing.T) {
	raw := domain.RawEvent{Value: []byte(testKNETFile)}
	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}, {raw}}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, newTestTransformer(t), ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(ctx), "pipeline must not report ready after load failures")
}

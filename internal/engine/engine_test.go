package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mazerion/internal/calculators"
	"github.com/rshade/mazerion/internal/engine/batch"
	"github.com/rshade/mazerion/internal/logbook"
	"github.com/rshade/mazerion/internal/measure"
	"github.com/rshade/mazerion/internal/registry"
)

type fakeRecorder struct {
	mu      sync.Mutex
	entries []logbook.Entry
	err     error
}

func (f *fakeRecorder) Save(_ context.Context, e logbook.Entry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, e)
	return fmt.Sprintf("entry-%d", len(f.entries)), nil
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(calculators.NewRegistry(), opts...)
}

func abvRequest() Request {
	return Request{CalculatorID: "abv", Params: map[string]string{"og": "1.050", "fg": "1.010"}}
}

func TestRun_ABV(t *testing.T) {
	e := newEngine(t)

	resp, err := e.Run(context.Background(), abvRequest())
	require.NoError(t, err)

	assert.Equal(t, "abv", resp.CalculatorID)
	assert.Equal(t, "5.25", resp.Value.StringFixed(2))
	assert.Equal(t, measure.ABV, resp.Unit)
	assert.Equal(t, "5.25 % ABV", resp.Display)
	assert.Empty(t, resp.Warnings)
	assert.NotNil(t, resp.Warnings)
	assert.Contains(t, resp.Metadata, "og")
	assert.Contains(t, resp.Metadata, "fg")
	assert.Contains(t, resp.Metadata, "formula")
	assert.Empty(t, resp.LogID)
}

func TestRun_MeasurementParams(t *testing.T) {
	e := newEngine(t)

	resp, err := e.Run(context.Background(), Request{
		CalculatorID: "brix_to_sg",
		Params:       map[string]string{"brix": "20"},
	})
	require.NoError(t, err)
	assert.Equal(t, measure.SpecificGravity, resp.Unit)
	assert.InDelta(t, 1.083, resp.Value.InexactFloat64(), 0.001)
}

func TestRun_Deterministic(t *testing.T) {
	e := newEngine(t)

	first, err := e.Run(context.Background(), abvRequest())
	require.NoError(t, err)
	second, err := e.Run(context.Background(), abvRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_Errors(t *testing.T) {
	tooMany := map[string]string{}
	for i := range MaxParams + 1 {
		tooMany[fmt.Sprintf("p%d", i)] = "1"
	}

	tests := []struct {
		name    string
		req     Request
		errType error
	}{
		{"empty id", Request{}, ErrInvalidInput},
		{"id with dash", Request{CalculatorID: "gravity-calc"}, ErrInvalidInput},
		{"id with space", Request{CalculatorID: "a b"}, ErrInvalidInput},
		{"id too long", Request{CalculatorID: strings.Repeat("a", MaxIDLength+1)}, ErrInvalidInput},
		{"too many params", Request{CalculatorID: "abv", Params: tooMany}, ErrInvalidInput},
		{"empty key", Request{CalculatorID: "abv", Params: map[string]string{"": "1"}}, ErrInvalidInput},
		{"key too long", Request{CalculatorID: "abv", Params: map[string]string{strings.Repeat("k", MaxKeyLength+1): "1"}}, ErrInvalidInput},
		{"value too long", Request{CalculatorID: "abv", Params: map[string]string{"og": strings.Repeat("1", MaxValueLength+1)}}, ErrInvalidInput},
		{"unknown calculator", Request{CalculatorID: "nonexistent"}, ErrCalculatorNotFound},
		{"missing fg", Request{CalculatorID: "abv", Params: map[string]string{"og": "1.050"}}, measure.ErrMissingInput},
		{"fg above og", Request{CalculatorID: "abv", Params: map[string]string{"og": "1.010", "fg": "1.050"}}, measure.ErrValidation},
		{"unparseable measurement", Request{CalculatorID: "brix_to_sg", Params: map[string]string{"brix": "sweet"}}, measure.ErrParse},
		{"measurement out of range", Request{CalculatorID: "sg_to_brix", Params: map[string]string{"sg": "3.5"}}, measure.ErrOutOfRange},
	}

	e := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.errType)
		})
	}
}

func TestRun_AtLimitsAccepted(t *testing.T) {
	params := map[string]string{"og": "1.050", "fg": "1.010"}
	for i := range MaxParams - 2 {
		params[fmt.Sprintf("extra_%d", i)] = strings.Repeat("x", MaxValueLength)
	}
	require.Len(t, params, MaxParams)

	_, err := newEngine(t).Run(context.Background(), Request{CalculatorID: "abv", Params: params})
	assert.NoError(t, err)
}

func TestRun_NotReady(t *testing.T) {
	tests := []struct {
		name string
		reg  *registry.Registry
	}{
		{"nil registry", nil},
		{"empty registry", registry.New()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.reg)
			assert.False(t, e.Ready())
			_, err := e.Run(context.Background(), abvRequest())
			assert.ErrorIs(t, err, ErrNotReady)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t).Run(ctx, abvRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Recorder(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("saves successful runs", func(t *testing.T) {
		rec := &fakeRecorder{}
		e := newEngine(t, WithLogbook(rec), WithClock(func() time.Time { return fixed }))

		resp, err := e.Run(context.Background(), abvRequest())
		require.NoError(t, err)
		assert.Equal(t, "entry-1", resp.LogID)

		require.Len(t, rec.entries, 1)
		entry := rec.entries[0]
		assert.Equal(t, "abv", entry.CalculatorID)
		assert.Equal(t, resp.Display, entry.Result)
		assert.Equal(t, fixed, entry.Timestamp)
		assert.Contains(t, entry.Inputs, `"key":"fg"`)
		assert.Less(t, strings.Index(entry.Inputs, `"fg"`), strings.Index(entry.Inputs, `"og"`))
	})

	t.Run("skips failed runs", func(t *testing.T) {
		rec := &fakeRecorder{}
		e := newEngine(t, WithLogbook(rec))
		_, err := e.Run(context.Background(), Request{CalculatorID: "abv"})
		require.Error(t, err)
		assert.Empty(t, rec.entries)
	})

	t.Run("save failure keeps the result", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &fakeRecorder{err: errors.New("disk full")}
		e := newEngine(t, WithLogbook(rec), WithLogger(zerolog.New(&buf)))

		resp, err := e.Run(context.Background(), abvRequest())
		require.NoError(t, err)
		assert.Empty(t, resp.LogID)
		assert.Contains(t, buf.String(), "logbook save failed")
	})

	t.Run("sqlite logbook", func(t *testing.T) {
		store, err := logbook.Open(logbook.MemoryPath)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		e := newEngine(t, WithLogbook(store))
		resp, err := e.Run(context.Background(), abvRequest())
		require.NoError(t, err)
		require.NotEmpty(t, resp.LogID)

		got, err := store.Get(context.Background(), resp.LogID)
		require.NoError(t, err)
		assert.Equal(t, "abv", got.CalculatorID)
	})
}

func TestRun_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	_, err := newEngine(t).Run(ctx, abvRequest())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "running calculator")
	assert.Contains(t, buf.String(), `"calculator":"abv"`)
}

func TestWithFormatter(t *testing.T) {
	f := measure.NewFormatter().WithPrecision(measure.ABV, 1)
	resp, err := newEngine(t, WithFormatter(f)).Run(context.Background(), abvRequest())
	require.NoError(t, err)
	assert.Equal(t, "5.3 % ABV", resp.Display)
}

func TestRunBatch(t *testing.T) {
	e := newEngine(t, WithConcurrency(3))
	reqs := []Request{
		abvRequest(),
		{CalculatorID: "nonexistent"},
		{CalculatorID: "abv", Params: map[string]string{"og": "1.050"}},
		{CalculatorID: "brix_to_sg", Params: map[string]string{"brix": "20"}},
		{CalculatorID: "bad id"},
	}

	items, err := e.RunBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, items, len(reqs))

	for i, item := range items {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, reqs[i].CalculatorID, item.CalculatorID)
	}

	assert.True(t, items[0].OK())
	assert.Equal(t, "5.25 % ABV", items[0].Response.Display)

	assert.False(t, items[1].OK())
	assert.Equal(t, "not found", items[1].Kind)
	assert.Contains(t, items[1].Error, "nonexistent")

	assert.False(t, items[2].OK())
	assert.Equal(t, "missing input", items[2].Kind)

	assert.True(t, items[3].OK())

	assert.False(t, items[4].OK())
	assert.Equal(t, "invalid input", items[4].Kind)
}

func TestRunBatch_OverflowingParamFailsOneItem(t *testing.T) {
	e := newEngine(t, WithConcurrency(2))
	huge := Request{CalculatorID: "srm", Params: map[string]string{
		"grain_weight": "1e400", "lovibond": "1", "volume": "1",
	}}

	_, err := e.Run(context.Background(), huge)
	require.ErrorIs(t, err, measure.ErrCalculation)

	items, err := e.RunBatch(context.Background(), []Request{huge, abvRequest()})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].OK())
	assert.Equal(t, "calculation error", items[0].Kind)
	assert.True(t, items[1].OK())
}

func TestRunBatch_Size(t *testing.T) {
	e := newEngine(t)

	_, err := e.RunBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	over := make([]Request, MaxBatchRequests+1)
	for i := range over {
		over[i] = abvRequest()
	}
	_, err = e.RunBatch(context.Background(), over)
	assert.ErrorIs(t, err, ErrInvalidInput)

	items, err := e.RunBatch(context.Background(), over[:MaxBatchRequests])
	require.NoError(t, err)
	assert.Len(t, items, MaxBatchRequests)
}

func TestRunChunked(t *testing.T) {
	e := newEngine(t)
	reqs := make([]Request, 250)
	for i := range reqs {
		reqs[i] = abvRequest()
	}
	reqs[120] = Request{CalculatorID: "nonexistent"}

	var snaps []batch.Snapshot
	run, err := e.RunChunked(context.Background(), reqs, func(s batch.Snapshot) {
		snaps = append(snaps, s)
	})
	require.NoError(t, err)

	assert.Len(t, run.ID, 26)
	require.Len(t, run.Items, 250)
	assert.Equal(t, 249, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 120, run.Items[120].Index)
	assert.False(t, run.Items[120].OK())
	assert.Equal(t, 249, run.Items[249].Index)

	require.Len(t, snaps, 3)
	assert.True(t, snaps[2].Complete())
}

func TestRunChunked_Empty(t *testing.T) {
	_, err := newEngine(t).RunChunked(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildInput(t *testing.T) {
	in, err := BuildInput(map[string]string{"zeta": "1", "alpha": "2", "sg": " 1.050 ", "mid": "3"})
	require.NoError(t, err)

	params := in.Params()
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"alpha", "mid", "sg", "zeta"}, keys)

	m, err := in.Measurement(measure.SpecificGravity)
	require.NoError(t, err)
	assert.Equal(t, "1.05", m.Value.String())
	assert.Len(t, in.Measurements(), 1)
}

func TestListAndDescribe(t *testing.T) {
	e := newEngine(t)

	all := e.ListCalculators()
	assert.Len(t, all, 51)
	assert.Equal(t, "abv", all[0].ID)

	info, err := e.Describe("sulfite")
	require.NoError(t, err)
	assert.Equal(t, "Finishing", info.Category)
	assert.NotEmpty(t, info.Name)

	_, err = e.Describe("nope")
	assert.ErrorIs(t, err, ErrCalculatorNotFound)

	meads := e.FindCalculators("mead styles", "")
	assert.Len(t, meads, 13)

	found := e.FindCalculators("", "REFRACTOMETER")
	require.NotEmpty(t, found)
	assert.Equal(t, "refractometer", found[0].ID)

	both := e.FindCalculators("finishing", "sulfite")
	require.Len(t, both, 1)
	assert.Equal(t, "sulfite", both[0].ID)
	assert.Empty(t, e.FindCalculators("Beer", "sulfite"))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{measure.Validation("x"), "validation error"},
		{fmt.Errorf("wrapped: %w", ErrCalculatorNotFound), "not found"},
		{ErrInvalidInput, "invalid input"},
		{ErrNotReady, "not ready"},
		{context.Canceled, "cancelled"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

// Package engine exposes the calculator catalog through a flat request and
// response shape, runs batches of requests in parallel, and optionally
// records every successful run in the logbook.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/mazerion/internal/calc"
	"github.com/rshade/mazerion/internal/engine/batch"
	"github.com/rshade/mazerion/internal/logbook"
	"github.com/rshade/mazerion/internal/measure"
	"github.com/rshade/mazerion/internal/registry"
)

// MeasurementKeys maps the param keys that also become checked measurements
// to their units.
//
//nolint:gochecknoglobals // Immutable lookup table.
var MeasurementKeys = map[string]measure.Unit{
	"sg":         measure.SpecificGravity,
	"ph":         measure.PH,
	"brix":       measure.Brix,
	"plato":      measure.Plato,
	"celsius":    measure.Celsius,
	"fahrenheit": measure.Fahrenheit,
}

// Recorder stores a successful run and returns the stored entry id.
// *logbook.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, e logbook.Entry) (string, error)
}

// Engine runs calculator requests against a registry.
type Engine struct {
	reg         *registry.Registry
	logger      zerolog.Logger
	recorder    Recorder
	formatter   *measure.Formatter
	concurrency int
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLogbook records every successful run in r.
func WithLogbook(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithFormatter sets the formatter used for Response.Display.
func WithFormatter(f *measure.Formatter) Option {
	return func(e *Engine) {
		if f != nil {
			e.formatter = f
		}
	}
}

// WithConcurrency caps how many requests of a batch run at once.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClock replaces time.Now for logbook timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine over reg. A nil registry behaves as an empty one.
func New(reg *registry.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = registry.New()
	}
	e := &Engine{
		reg:         reg,
		logger:      zerolog.Nop(),
		formatter:   measure.NewFormatter(),
		concurrency: runtime.NumCPU(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ready reports whether any calculator is registered.
func (e *Engine) Ready() bool {
	return e.reg.Len() > 0
}

// ListCalculators returns every calculator in registration order.
func (e *Engine) ListCalculators() []Info {
	return infos(e.reg.All())
}

// FindCalculators returns the calculators in category whose id, name, or
// description contains term. Empty arguments do not filter.
func (e *Engine) FindCalculators(category, term string) []Info {
	matched := e.reg.Search(term)
	if category == "" {
		return infos(matched)
	}

	ids := make(map[string]bool, len(matched))
	for _, c := range matched {
		ids[c.ID()] = true
	}
	out := make([]Info, 0, len(matched))
	for _, c := range e.reg.InCategory(category) {
		if ids[c.ID()] {
			out = append(out, infoOf(c))
		}
	}
	return out
}

// Describe returns the catalog entry for id.
func (e *Engine) Describe(id string) (Info, error) {
	c, ok := e.reg.Get(id)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrCalculatorNotFound, id)
	}
	return infoOf(c), nil
}

// Run executes one request: it checks the request limits, resolves the
// calculator, builds the input, and runs Validate then Calculate.
func (e *Engine) Run(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if !e.Ready() {
		return Response{}, ErrNotReady
	}
	if err := ValidateRequest(req); err != nil {
		return Response{}, err
	}

	log := e.loggerFor(ctx)
	c, ok := e.reg.Get(req.CalculatorID)
	if !ok {
		log.Warn().Str("calculator", req.CalculatorID).Msg("unknown calculator")
		return Response{}, fmt.Errorf("%w: %s", ErrCalculatorNotFound, req.CalculatorID)
	}

	in, err := BuildInput(req.Params)
	if err != nil {
		log.Warn().Err(err).Str("calculator", c.ID()).Msg("request params rejected")
		return Response{}, err
	}

	log.Debug().
		Str("calculator", c.ID()).
		Int("params", len(req.Params)).
		Int("measurements", len(in.Measurements())).
		Msg("running calculator")

	if err = c.Validate(in); err != nil {
		log.Warn().Err(err).Str("calculator", c.ID()).Str("kind", measure.KindOf(err)).Msg("validation failed")
		return Response{}, err
	}
	res, err := c.Calculate(in)
	if err != nil {
		log.Warn().Err(err).Str("calculator", c.ID()).Str("kind", measure.KindOf(err)).Msg("calculation failed")
		return Response{}, err
	}

	resp := e.respond(c.ID(), res)
	if e.recorder != nil {
		resp.LogID = e.record(ctx, log, c.ID(), in, resp)
	}
	return resp, nil
}

// RunBatch runs every request independently and in parallel, bounded by the
// engine concurrency. The returned items are in request order. A failing
// request never stops the others; only an invalid batch size or a cancelled
// context makes RunBatch itself fail.
func (e *Engine) RunBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) == 0 || len(reqs) > MaxBatchRequests {
		return nil, fmt.Errorf("%w: batch must hold 1 to %d requests, got %d",
			ErrInvalidInput, MaxBatchRequests, len(reqs))
	}

	items := make([]BatchItem, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			items[i] = BatchItem{Index: i, CalculatorID: req.CalculatorID}
			resp, err := e.Run(gCtx, req)
			if err != nil {
				items[i].Error = err.Error()
				items[i].Kind = ErrorKind(err)
				return nil
			}
			items[i].Response = &resp
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// RunChunked runs any number of requests by splitting them into batches of
// MaxBatchRequests. progress, when non-nil, is called after each batch.
func (e *Engine) RunChunked(ctx context.Context, reqs []Request, progress batch.ProgressFunc) (BatchRun, error) {
	run := BatchRun{ID: ulid.Make().String()}
	if len(reqs) == 0 {
		return run, fmt.Errorf("%w: no requests", ErrInvalidInput)
	}

	// DefaultChunkSize equals MaxBatchRequests, so every chunk fits one RunBatch call.
	p := batch.NewDefaultProcessor[Request]()
	if progress != nil {
		p.OnProgress(progress)
	}

	log := e.loggerFor(ctx).With().Str("run_id", run.ID).Logger()
	log.Info().Int("requests", len(reqs)).Int("chunk_size", p.ChunkSize()).Msg("batch run started")
	start := time.Now()

	run.Items = make([]BatchItem, len(reqs))
	err := p.Process(ctx, reqs, func(ctx context.Context, chunk []Request, offset int) error {
		out, runErr := e.RunBatch(ctx, chunk)
		if runErr != nil {
			return runErr
		}
		for i, item := range out {
			item.Index = offset + i
			run.Items[offset+i] = item
		}
		return nil
	})
	if err != nil {
		return run, err
	}

	for _, item := range run.Items {
		if item.OK() {
			run.Succeeded++
		} else {
			run.Failed++
		}
	}
	log.Info().
		Int("succeeded", run.Succeeded).
		Int("failed", run.Failed).
		Dur("duration", time.Since(start)).
		Msg("batch run finished")
	return run, nil
}

// BuildInput turns flat params into a calculator input. Keys are applied in
// sorted order. Keys listed in MeasurementKeys are kept as params and also
// parsed into checked measurements.
func BuildInput(params map[string]string) (calc.Input, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	in := calc.NewInput()
	for _, k := range keys {
		v := params[k]
		in = in.AddParam(k, v)
		if unit, ok := MeasurementKeys[k]; ok {
			m, err := measure.Parse(strings.TrimSpace(v), unit)
			if err != nil {
				return calc.Input{}, err
			}
			in = in.AddMeasurement(m)
		}
	}
	return in, nil
}

// ValidateRequest checks req against the request limits.
func ValidateRequest(req Request) error {
	id := req.CalculatorID
	switch {
	case id == "":
		return fmt.Errorf("%w: calculator id is required", ErrInvalidInput)
	case len(id) > MaxIDLength:
		return fmt.Errorf("%w: calculator id exceeds %d characters", ErrInvalidInput, MaxIDLength)
	case !validID(id):
		return fmt.Errorf("%w: calculator id %q may only contain letters, digits, and underscores", ErrInvalidInput, id)
	case len(req.Params) > MaxParams:
		return fmt.Errorf("%w: %d params exceeds the limit of %d", ErrInvalidInput, len(req.Params), MaxParams)
	}

	for k, v := range req.Params {
		if k == "" {
			return fmt.Errorf("%w: param key cannot be empty", ErrInvalidInput)
		}
		if len(k) > MaxKeyLength {
			return fmt.Errorf("%w: param key exceeds %d characters", ErrInvalidInput, MaxKeyLength)
		}
		if len(v) > MaxValueLength {
			return fmt.Errorf("%w: value of %q exceeds %d characters", ErrInvalidInput, k, MaxValueLength)
		}
	}
	return nil
}

// ErrorKind classifies err for batch output: a measure error kind, or one of
// the engine error classes.
func ErrorKind(err error) string {
	if kind := measure.KindOf(err); kind != "" {
		return kind
	}
	switch {
	case errors.Is(err, ErrCalculatorNotFound):
		return "not found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, ErrNotReady):
		return "not ready"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func (e *Engine) respond(id string, res calc.Result) Response {
	out := res.Output()
	warnings := res.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	return Response{
		CalculatorID: id,
		Value:        out.Value,
		Unit:         out.Unit,
		Display:      e.formatter.Format(out),
		Warnings:     warnings,
		Metadata:     res.MetaMap(),
	}
}

// record saves a run to the logbook. A failed save is logged and leaves the
// run successful.
func (e *Engine) record(ctx context.Context, log *zerolog.Logger, id string, in calc.Input, resp Response) string {
	inputs, err := json.Marshal(in)
	if err != nil {
		log.Warn().Err(err).Str("calculator", id).Msg("encoding logbook inputs")
		return ""
	}
	logID, err := e.recorder.Save(ctx, logbook.Entry{
		CalculatorID: id,
		Inputs:       string(inputs),
		Result:       resp.Display,
		Timestamp:    e.now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("calculator", id).Msg("logbook save failed")
		return ""
	}
	return logID
}

// loggerFor prefers a logger attached to ctx and falls back to the engine's.
func (e *Engine) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &e.logger
}

func validID(id string) bool {
	for _, r := range id {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit && r != '_' {
			return false
		}
	}
	return true
}

func infoOf(c calc.Calculator) Info {
	return Info{
		ID:          c.ID(),
		Name:        c.Name(),
		Category:    c.Category(),
		Description: c.Description(),
	}
}

func infos(cs []calc.Calculator) []Info {
	out := make([]Info, len(cs))
	for i, c := range cs {
		out[i] = infoOf(c)
	}
	return out
}

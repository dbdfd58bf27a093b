package stremio_dsearch

import (
	"context"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/nguyenvanvutlv/resolver/internal/metrics"
	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/nguyenvanvutlv/resolver/stremio"
)

type Phase string

const (
	PhaseResolvingMeta      Phase = "resolving_meta"
	PhaseFetchingCandidates Phase = "fetching_candidates"
	PhaseDisambiguating     Phase = "disambiguating"
	PhaseExpanding          Phase = "expanding"
	PhaseAssembling         Phase = "assembling"
	PhaseDone               Phase = "done"
	PhaseErrored            Phase = "errored"
)

type ResolveError struct {
	Phase Phase
	Err   error
}

func (e *ResolveError) Error() string {
	return "failed while " + strings.ReplaceAll(string(e.Phase), "_", " ") + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Failure is a problem that cost the result some streams without aborting
// the resolution.
type Failure struct {
	Phase       Phase
	CandidateId string
	Err         error
}

type Result struct {
	// nil when the title is unknown
	Meta     *CanonicalMeta
	Streams  []*StreamDescriptor
	Failures []Failure
}

func (r *Result) IsPartial() bool {
	return len(r.Failures) > 0
}

func (r *Result) ToStreams() []stremio.Stream {
	streams := make([]stremio.Stream, len(r.Streams))
	for i, d := range r.Streams {
		streams[i] = d.ToStream()
	}
	return streams
}

type MetaResolver interface {
	Resolve(ctx context.Context, req *MediaRequest) (*CanonicalMeta, error)
}

type EngineConfig struct {
	Store store.Store
	// credentials for every store call
	StoreParams store.Ctx
	Meta        MetaResolver
	Threshold   float64
	Filter      *stremio_transformer.StreamFilter
	Sort        *stremio_transformer.StreamSort
	Referencer  Referencer
	Log         *logger.Logger
}

// Engine resolves a single request. It holds no state between calls.
type Engine struct {
	store      store.Store
	params     store.Ctx
	meta       MetaResolver
	threshold  float64
	filter     *stremio_transformer.StreamFilter
	sort       *stremio_transformer.StreamSort
	referencer Referencer
	log        *logger.Logger
}

func NewEngine(conf *EngineConfig) *Engine {
	l := conf.Log
	if l == nil {
		l = log
	}
	return &Engine{
		store:      conf.Store,
		params:     conf.StoreParams,
		meta:       conf.Meta,
		threshold:  conf.Threshold,
		filter:     conf.Filter,
		sort:       conf.Sort,
		referencer: conf.Referencer,
		log:        l.With("store", conf.Store.GetName()),
	}
}

type resolution struct {
	phase  Phase
	req    *MediaRequest
	result *Result
	log    *logger.Logger
}

func (r *resolution) enter(phase Phase) {
	r.log.Trace("resolution phase", "from", r.phase, "to", phase)
	r.phase = phase
}

func (r *resolution) fail(err error) error {
	failedIn := r.phase
	r.enter(PhaseErrored)
	return &ResolveError{Phase: failedIn, Err: err}
}

func (r *resolution) degrade(candidateId string, err error) {
	r.result.Failures = append(r.result.Failures, Failure{Phase: r.phase, CandidateId: candidateId, Err: err})
}

func (e *Engine) Resolve(ctx context.Context, req *MediaRequest) (*Result, error) {
	start := time.Now()
	r := &resolution{
		req:    req,
		result: &Result{Streams: []*StreamDescriptor{}},
		log:    e.log.With("id", req.String()),
	}

	result, err := e.resolve(ctx, r)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case result.IsPartial():
		outcome = "partial"
	}
	metrics.RecordResolution(string(e.store.GetName()), string(req.Kind), outcome, time.Since(start), len(r.result.Streams))

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) resolve(ctx context.Context, r *resolution) (*Result, error) {
	r.enter(PhaseResolvingMeta)
	meta, err := e.meta.Resolve(ctx, r.req)
	if err != nil {
		return nil, r.fail(err)
	}
	if meta == nil || strings.TrimSpace(meta.Title) == "" {
		r.log.Debug("no metadata, skipping store")
		r.enter(PhaseDone)
		return r.result, nil
	}
	r.result.Meta = meta

	r.enter(PhaseFetchingCandidates)
	candidates, err := e.fetchCandidates(ctx, meta)
	if err != nil {
		if core.IsFatal(err) || ctx.Err() != nil {
			return nil, r.fail(err)
		}
		r.log.Warn("failed to fetch candidates", "error", err)
		r.degrade("", err)
	}

	r.enter(PhaseDisambiguating)
	survivors := e.disambiguate(r, candidates, meta)
	r.log.Debug("candidates narrowed", "title", meta.Title, "year", yearString(meta.Year), "fetched", len(candidates), "kept", len(survivors))

	r.enter(PhaseExpanding)
	expanded := e.expand(ctx, r, survivors)

	r.enter(PhaseAssembling)
	e.assemble(r, expanded)

	r.enter(PhaseDone)
	return r.result, nil
}

func (e *Engine) fetchCandidates(ctx context.Context, meta *CanonicalMeta) ([]Candidate, error) {
	data, err := e.store.ListItems(ctx, &store.ListItemsParams{Ctx: e.params, Query: meta.Title})
	if err != nil {
		return nil, err
	}
	name := e.store.GetName()
	candidates := make([]Candidate, len(data.Items))
	for i := range data.Items {
		candidates[i] = NewCandidate(name, &data.Items[i])
	}
	return candidates, nil
}

func (e *Engine) disambiguate(r *resolution, candidates []Candidate, meta *CanonicalMeta) []Candidate {
	matched := Match(candidates, meta.Title, e.threshold)

	survivors := make([]Candidate, 0, len(matched))
	for i := range matched {
		c := &matched[i]
		if r.req.IsSeries() {
			if !SeasonMatches(c, r.req.Season) {
				r.log.Trace("season mismatch", "name", c.Name, "season", r.req.Season)
				continue
			}
		} else if !YearMatches(c, meta) {
			r.log.Trace("year mismatch", "name", c.Name, "year", meta.Year)
			continue
		}
		survivors = append(survivors, *c)
	}
	return survivors
}

func (e *Engine) expand(ctx context.Context, r *resolution, candidates []Candidate) []*ExpandedItem {
	if len(candidates) == 0 {
		return nil
	}

	expander := &Expander{Store: e.store, Params: e.params, Log: r.log}

	items := make([]*ExpandedItem, len(candidates))
	errs := make([]error, len(candidates))

	pool := pond.NewPool(len(candidates))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i := range candidates {
		group.Submit(func() {
			defer func() {
				if perr, stack := util.HandlePanic(recover(), true); perr != nil {
					r.log.Error("panic while expanding", "error", perr, "candidate", candidates[i].Id, "stack", stack)
					items[i], errs[i] = nil, perr
				}
			}()
			items[i], errs[i] = expander.Expand(ctx, &candidates[i])
		})
	}
	group.Wait()

	expanded := make([]*ExpandedItem, 0, len(items))
	for i := range items {
		if errs[i] != nil {
			r.log.Warn("failed to expand candidate", "error", errs[i], "candidate", candidates[i].Id, "name", candidates[i].Name)
			r.degrade(candidates[i].Id, errs[i])
			continue
		}
		if items[i] == nil {
			r.log.Trace("no video files", "candidate", candidates[i].Id, "name", candidates[i].Name)
			continue
		}
		expanded = append(expanded, items[i])
	}
	return expanded
}

func (e *Engine) assemble(r *resolution, items []*ExpandedItem) {
	seen := util.NewSet[string]()
	for _, item := range items {
		if r.req.IsSeries() {
			narrowed, ok := EpisodeMatches(item, r.req.Season, r.req.Episode)
			if !ok {
				r.log.Trace("no file for episode", "candidate", item.Id, "season", r.req.Season, "episode", r.req.Episode)
				continue
			}
			item = narrowed
		}

		d, err := Assemble(item, r.req, e.referencer)
		if err != nil {
			r.degrade(item.Id, err)
			continue
		}
		if d == nil || !e.filter.Match(d.meta) {
			continue
		}
		if key := d.GetSortKey(); !seen.Has(key) {
			seen.Add(key)
			r.result.Streams = append(r.result.Streams, d)
		}
	}

	stremio_transformer.SortStreams(r.result.Streams, e.sort)
}

package fieldset

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	fslog "github.com/dlovans/fieldset/internal/log"
)

// Engine evaluates one field set against one form state.
// Each editing session owns its own Engine; the cache inside is never shared.
//
// EvaluateOne, EvaluateFields and ValidateAll only read the form state and may
// run concurrently. EvaluateAll writes computed defaults and must not overlap
// with other calls. The host must call Invalidate (or use Set) after mutating
// the state it passed to NewEngine.
type Engine struct {
	decls  []*Declaration
	byName map[string]*compiled
	graph  Graph
	order  []*Declaration

	state        FormState
	cache        *cache
	validators   map[string]CustomFunc
	exemptHidden bool
	sessionID    string
	logger       *slog.Logger

	hits       atomic.Int64
	misses     atomic.Int64
	conditions atomic.Int64
}

// compiled caches what the engine derives from a declaration once per declaration set.
type compiled struct {
	decl  *Declaration
	conds DisplayConditions
	deps  []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithValidator registers a named custom predicate for rules with Validator set.
func WithValidator(name string, fn CustomFunc) Option {
	return func(e *Engine) {
		e.validators[name] = fn
	}
}

// WithExemptHidden controls whether fields that are not visible skip validation.
// Default: true.
func WithExemptHidden(exempt bool) Option {
	return func(e *Engine) {
		e.exemptHidden = exempt
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.sessionID = id
		}
	}
}

// NewEngine creates an engine for the given declarations and host-owned form state.
// A nil state starts empty.
func NewEngine(decls []*Declaration, state FormState, opts ...Option) *Engine {
	if state == nil {
		state = make(FormState)
	}

	e := &Engine{
		state:        state,
		cache:        newCache(),
		validators:   make(map[string]CustomFunc),
		exemptHidden: true,
		sessionID:    uuid.NewString(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = fslog.WithComponent(e.logger, "fieldset").With(slog.String(fslog.SessionIDKey, e.sessionID))

	e.SetDeclarations(decls)
	return e
}

// SetDeclarations replaces the declaration set. This is the only operation that
// rebuilds the dependency graph and evaluation order; it also clears the cache.
func (e *Engine) SetDeclarations(decls []*Declaration) {
	e.decls = decls
	e.byName = make(map[string]*compiled, len(decls))
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		if _, dup := e.byName[decl.Name]; dup {
			e.logger.Warn("duplicate field declaration ignored", fslog.FieldKey, decl.Name)
			continue
		}
		e.byName[decl.Name] = &compiled{
			decl:  decl,
			conds: Conditions(decl),
			deps:  ExtractDependencies(decl),
		}
	}

	e.graph = BuildGraph(decls)
	var cycles [][]string
	e.order, cycles = sequence(decls)
	for _, cycle := range cycles {
		e.logger.Debug("dependency cycle broken", fslog.FieldKey, cycle[0], "cycle", cycle)
	}

	e.cache.clear()
}

// State returns the live form state.
func (e *Engine) State() FormState {
	return e.state
}

// Set stores a value in the form state and invalidates the cache.
func (e *Engine) Set(name string, value any) {
	e.state[name] = value
	e.Invalidate()
}

// Invalidate reports a form-state update: the whole cache is dropped.
func (e *Engine) Invalidate() {
	e.cache.clear()
	e.logger.Debug("evaluation cache cleared")
}

// EvaluateOne returns the result for a single field, served from the cache when
// none of the field's inputs changed.
func (e *Engine) EvaluateOne(ctx context.Context, name string) (Result, error) {
	c, ok := e.byName[name]
	if !ok {
		return Result{}, &NotFoundError{Field: name}
	}
	return e.evaluate(ctx, c)
}

// EvaluateAll evaluates every field in dependency order. A field that is unset
// gets its computed default written into the form state before any field that
// depends on it is evaluated; the default is also reported on its result.
func (e *Engine) EvaluateAll(ctx context.Context) (map[string]Result, error) {
	results := make(map[string]Result, len(e.order))
	for _, decl := range e.order {
		var (
			def    any
			filled bool
		)
		if isUnset(e.state, decl.Name) {
			if def, filled = ComputeDefault(decl); filled {
				e.state[decl.Name] = def
				e.logger.Debug("default applied", fslog.FieldKey, decl.Name)
			}
		}

		res, err := e.evaluate(ctx, e.byName[decl.Name])
		if err != nil {
			return nil, err
		}
		if filled {
			res.Default, res.HasDefault = def, true
		}
		results[decl.Name] = res
	}
	return results, nil
}

// EvaluateFields evaluates the named fields concurrently.
// The first error cancels the remaining evaluations.
func (e *Engine) EvaluateFields(ctx context.Context, names []string) (map[string]Result, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]Result, len(names))
	for _, name := range names {
		g.Go(func() error {
			res, err := e.EvaluateOne(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateAll validates every field and summarizes the outcome. With the hidden
// exemption enabled (the default), fields that are not visible never report errors.
// Warnings do not affect Valid.
func (e *Engine) ValidateAll(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		Valid:    true,
		Errors:   make(map[string]string),
		Warnings: make(map[string]string),
	}

	for _, decl := range e.order {
		res, err := e.evaluate(ctx, e.byName[decl.Name])
		if err != nil {
			return nil, err
		}
		if !res.Visible && e.exemptHidden {
			continue
		}
		if res.Error != "" {
			summary.Errors[decl.Name] = res.Error
			summary.Valid = false
		}
		if res.Warning != "" {
			summary.Warnings[decl.Name] = res.Warning
		}
	}
	return summary, nil
}

// Declarations returns the declaration set as supplied.
func (e *Engine) Declarations() []*Declaration {
	return e.decls
}

// Graph returns the reverse dependency graph.
func (e *Engine) Graph() Graph {
	return e.graph
}

// Order returns the evaluation order.
func (e *Engine) Order() []*Declaration {
	return append([]*Declaration(nil), e.order...)
}

// Affected returns the fields whose results may change when name changes.
func (e *Engine) Affected(name string) []string {
	return e.graph.Affected(name)
}

// SessionID identifies the editing session this engine serves.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		CacheHits:            e.hits.Load(),
		CacheMisses:          e.misses.Load(),
		ConditionEvaluations: e.conditions.Load(),
		CacheEntries:         e.cache.len(),
	}
}

// evaluate serves a field result from the cache or computes and stores it.
func (e *Engine) evaluate(ctx context.Context, c *compiled) (Result, error) {
	key := cacheKey(c.decl.Name, c.deps, e.state)
	if res, ok := e.cache.get(key); ok {
		e.hits.Add(1)
		cacheHits.Inc()
		fslog.Trace(e.logger, "cache hit", slog.String(fslog.FieldKey, c.decl.Name))
		return res, nil
	}

	e.misses.Add(1)
	cacheMisses.Inc()
	fslog.Trace(e.logger, "cache miss", slog.String(fslog.FieldKey, c.decl.Name))

	res, err := e.compute(ctx, c)
	if err != nil {
		return Result{}, err
	}
	e.cache.put(key, res)
	return res, nil
}

// compute derives a field result from its declaration and the current state.
func (e *Engine) compute(ctx context.Context, c *compiled) (Result, error) {
	decl := c.decl
	visible, disabled := evaluateDisplay(c.conds, e.checkRule)

	res := Result{
		Visible:  visible,
		Disabled: disabled,
		Required: decl.Required || hasRequiredRule(decl),
	}

	if visible || !e.exemptHidden {
		msg, warning, err := validateField(ctx, decl, e.state[decl.Name], e.state, e.lookupValidator)
		if err != nil {
			return Result{}, err
		}
		res.Error, res.Warning = msg, warning
	}

	if isUnset(e.state, decl.Name) {
		res.Default, res.HasDefault = ComputeDefault(decl)
	}
	return res, nil
}

// checkRule interprets one rule; rules on undeclared fields never hold.
func (e *Engine) checkRule(rule Rule) bool {
	if _, ok := e.byName[rule.Property]; !ok {
		return false
	}
	e.conditions.Add(1)
	conditionEvaluations.Inc()
	holds := EvaluateCondition(rule, e.state)
	fslog.Trace(e.logger, "condition evaluated",
		slog.String("property", rule.Property),
		slog.String("operator", string(rule.Operator)),
		slog.Bool("holds", holds),
	)
	return holds
}

func (e *Engine) lookupValidator(name string) CustomFunc {
	return e.validators[name]
}

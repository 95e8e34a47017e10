// Package graph_pool owns many graph instances and updates them in parallel, one task per
// instance, on a reusable worker pool.
package graph_pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// ErrUnknownHandle indicates a handle that was never spawned or was already destroyed.
var ErrUnknownHandle = errors.New("unknown graph handle")

// Handle identifies a graph instance owned by a Pool.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

// entry is the pool's record of one graph instance. Only the task updating the instance
// touches it during UpdateAll.
type entry struct {
	handle   Handle
	instance *graph.GraphInstance
	world    model.Transform
	result   graph.PoseNodeResult
}

// pool is the implementation of the Pool interface.
type pool struct {
	mu *sync.RWMutex

	logger *slog.Logger

	entries map[Handle]*entry
	order   []Handle

	workerPool  worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration

	integrateRootMotion bool
	released            bool
}

// Pool defines the interface for owning and updating many graph instances.
// Each instance keeps its own context and event buffer, so instances are updated
// concurrently with no shared mutable state between them.
type Pool interface {
	// Spawn instantiates a graph and adds it to the pool.
	//
	// Parameters:
	//   - def: the compiled graph definition
	//   - options: options forwarded to graph.InstantiateGraph
	//
	// Returns:
	//   - Handle: the handle of the new instance
	//   - error: the instantiation error, if any
	Spawn(def *graph.Definition, options ...graph.InstanceBuilderOption) (Handle, error)

	// SpawnN instantiates n graphs concurrently. If any instantiation fails, the instances
	// already created by this call are destroyed and the first error is returned.
	//
	// Parameters:
	//   - ctx: cancels spawning that has not started yet
	//   - def: the compiled graph definition
	//   - n: the number of instances
	//   - options: options forwarded to graph.InstantiateGraph
	//
	// Returns:
	//   - []Handle: the handles of the new instances
	//   - error: the first instantiation error, if any
	SpawnN(ctx context.Context, def *graph.Definition, n int, options ...graph.InstanceBuilderOption) ([]Handle, error)

	// Reload rebuilds an instance from a new definition, reusing its node objects where possible.
	// The handle and world transform are kept.
	//
	// Parameters:
	//   - h: the instance handle
	//   - def: the new definition
	//
	// Returns:
	//   - error: ErrUnknownHandle or the instantiation error
	Reload(h Handle, def *graph.Definition) error

	// Instance returns the graph instance for a handle, or nil.
	Instance(h Handle) *graph.GraphInstance

	// SetWorldTransform sets the world transform passed to the instance's next update.
	//
	// Parameters:
	//   - h: the instance handle
	//   - t: the character's world transform
	//
	// Returns:
	//   - error: ErrUnknownHandle if the handle is not in the pool
	SetWorldTransform(h Handle, t model.Transform) error

	// WorldTransform returns the world transform the instance will be updated with next.
	WorldTransform(h Handle) (model.Transform, bool)

	// Result returns the instance's result from the last UpdateAll.
	Result(h Handle) (graph.PoseNodeResult, bool)

	// Handles returns the handles of every instance in spawn order.
	Handles() []Handle

	// Count returns the number of instances in the pool.
	Count() int

	// UpdateAll updates every instance once and waits for all of them to finish.
	// An update pass always runs to completion once started; ctx is only checked beforehand.
	//
	// Parameters:
	//   - ctx: the caller's context, used for cancellation before the pass and for tracing
	//   - deltaTime: the elapsed time in seconds
	//
	// Returns:
	//   - error: ctx.Err() if the context was done before the pass started
	UpdateAll(ctx context.Context, deltaTime float32) error

	// Destroy shuts down and removes an instance.
	//
	// Parameters:
	//   - h: the instance handle
	//
	// Returns:
	//   - error: ErrUnknownHandle if the handle is not in the pool
	Destroy(h Handle) error

	// Release destroys every instance. The pool must not be used afterwards.
	Release()
}

var _ Pool = &pool{}

// NewPool creates a new Pool instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of PoolBuilderOption functions to configure the Pool
//
// Returns:
//   - Pool: a new instance of Pool configured with the provided options
func NewPool(options ...PoolBuilderOption) Pool {
	p := &pool{
		mu:                  &sync.RWMutex{},
		logger:              slog.New(slog.DiscardHandler),
		entries:             make(map[Handle]*entry),
		workers:             max(runtime.NumCPU()-1, 1),
		queueSize:           256,
		idleTimeout:         1 * time.Second,
		integrateRootMotion: true,
	}

	for _, option := range options {
		option(p)
	}

	// Created after options so WithWorkers/WithQueueSize/WithIdleTimeout can override the defaults.
	p.workerPool = worker.NewDynamicWorkerPool(p.workers, p.queueSize, p.idleTimeout)
	return p
}

func (p *pool) Spawn(def *graph.Definition, options ...graph.InstanceBuilderOption) (Handle, error) {
	inst, err := p.instantiate(def, options...)
	if err != nil {
		return Handle{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addLocked(inst), nil
}

func (p *pool) SpawnN(ctx context.Context, def *graph.Definition, n int, options ...graph.InstanceBuilderOption) ([]Handle, error) {
	if n <= 0 {
		return nil, nil
	}

	instances := make([]*graph.GraphInstance, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range n {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			inst, err := p.instantiate(def, options...)
			if err != nil {
				return err
			}
			instances[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, inst := range instances {
			if inst != nil {
				inst.Destroy()
			}
		}
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	handles := make([]Handle, n)
	for i, inst := range instances {
		handles[i] = p.addLocked(inst)
	}
	return handles, nil
}

func (p *pool) instantiate(def *graph.Definition, options ...graph.InstanceBuilderOption) (*graph.GraphInstance, error) {
	opts := append([]graph.InstanceBuilderOption{graph.WithContextOptions(graph.WithLogger(p.logger))}, options...)
	inst, err := graph.InstantiateGraph(def, opts...)
	if err != nil {
		spawnErrors.Inc()
		p.logger.Error("graph instantiation failed", "component", "graph_pool", "error", err)
		return nil, fmt.Errorf("graph_pool: spawn: %w", err)
	}
	return inst, nil
}

func (p *pool) addLocked(inst *graph.GraphInstance) Handle {
	h := Handle(uuid.New())
	p.entries[h] = &entry{
		handle:   h,
		instance: inst,
		world:    inst.Context().WorldTransform(),
		result:   inst.LastResult(),
	}
	p.order = append(p.order, h)
	liveInstances.Inc()
	return h
}

func (p *pool) Reload(h Handle, def *graph.Definition) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	inst, err := p.instantiate(def, graph.WithReuse(e.instance), graph.WithContextOptions(graph.WithWorldTransform(e.world)))
	if err != nil {
		e.instance.Destroy()
		p.removeLocked(h)
		return err
	}
	e.instance = inst
	e.result = inst.LastResult()
	return nil
}

func (p *pool) Instance(h Handle) *graph.GraphInstance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.entries[h]; ok {
		return e.instance
	}
	return nil
}

func (p *pool) SetWorldTransform(h Handle, t model.Transform) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	e.world = t
	return nil
}

func (p *pool) WorldTransform(h Handle) (model.Transform, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.entries[h]; ok {
		return e.world, true
	}
	return model.Transform{}, false
}

func (p *pool) Result(h Handle) (graph.PoseNodeResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.entries[h]; ok {
		return e.result, true
	}
	return graph.PoseNodeResult{}, false
}

func (p *pool) Handles() []Handle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Handle, len(p.order))
	copy(out, p.order)
	return out
}

func (p *pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

func (p *pool) UpdateAll(ctx context.Context, deltaTime float32) error {
	// Held for the whole pass so no instance is added, removed, or moved mid-update.
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, span := tracer.Start(ctx, "graph_pool.UpdateAll",
		trace.WithAttributes(
			attribute.Int("graph_pool.instances", len(p.entries)),
			attribute.Float64("graph_pool.delta_time", float64(deltaTime)),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context canceled")
		return err
	}

	start := time.Now()

	// One task per instance. A WaitGroup provides the per-frame barrier since the worker
	// pool's own Wait blocks until workers idle out.
	var wg sync.WaitGroup
	for taskID, h := range p.order {
		e := p.entries[h]
		wg.Add(1)
		p.workerPool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				res := e.instance.Update(deltaTime, e.world)
				if p.integrateRootMotion {
					e.world = res.RootMotionDelta.Mul(e.world)
				}
				e.result = res
				return nil, nil
			},
		})
	}
	wg.Wait()

	elapsed := time.Since(start)
	updateAllDuration.Observe(elapsed.Seconds())
	graphUpdatesTotal.Add(float64(len(p.order)))
	span.SetStatus(codes.Ok, "")
	return nil
}

func (p *pool) Destroy(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	e.instance.Destroy()
	p.removeLocked(h)
	return nil
}

func (p *pool) removeLocked(h Handle) {
	delete(p.entries, h)
	for i, oh := range p.order {
		if oh == h {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	liveInstances.Dec()
}

func (p *pool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	for _, h := range p.order {
		p.entries[h].instance.Destroy()
		liveInstances.Dec()
	}
	p.entries = make(map[Handle]*entry)
	p.order = nil
	p.released = true
}

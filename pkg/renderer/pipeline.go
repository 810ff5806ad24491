package renderer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amberhive/beeant-tracer/pkg/core"
	"github.com/amberhive/beeant-tracer/pkg/integrator"
	"github.com/amberhive/beeant-tracer/pkg/scene"
	"github.com/amberhive/beeant-tracer/pkg/store"
)

// Task is one pixel to render.
type Task struct {
	Row, Col int
}

// Result is one rendered pixel's averaged radiance plus the SPP path
// records sampled to produce it, ready for the ant to frame-buffer and
// persist.
type Result struct {
	Row, Col int
	Radiance core.Vec3
	Paths    []integrator.Path
}

// Config tunes the pipeline's scheduling: samples per pixel, worker
// (bee) count, the batch size each bee claims per turn at the task
// queue, and the ant's condition-variable wait bound. WorkerSleepMs is
// carried in the config but not read by the pipeline: a bee never sleeps
// on an empty task queue, it exits (the queue is static, see taskQueue).
type Config struct {
	SPP            int
	NumWorkers     int
	BatchSize      int
	WaitIntervalMs int
	WorkerSleepMs  int
}

// DefaultConfig returns reasonable defaults: 16 samples per pixel, one
// bee per CPU-ish worker count supplied by the caller, 64-pixel
// batches, a 50ms coordinator wait bound, and WorkerSleepMs = 10 (unused;
// see Config).
func DefaultConfig(numWorkers int) Config {
	return Config{SPP: 16, NumWorkers: numWorkers, BatchSize: 64, WaitIntervalMs: 50, WorkerSleepMs: 10}
}

// taskQueue is the shared, mutex-protected FIFO of pending pixel tasks.
// It is populated once before the pipeline starts and only ever drained
// — no dynamic task generation — so a bee that pops an empty batch knows
// there is nothing left to do.
type taskQueue struct {
	mu    sync.Mutex
	tasks []Task
}

func (q *taskQueue) take(n int) []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.tasks) {
		n = len(q.tasks)
	}
	batch := q.tasks[:n]
	q.tasks = q.tasks[n:]
	return batch
}

// resultQueue is the shared, mutex-protected list of completed results,
// signalled via a condition variable so the ant can wait instead of
// polling. A separate ticker broadcasts periodically so the ant's wait
// is bounded even if no bee ever signals again (the wait_interval_ms
// bound from the concurrency design).
type resultQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	results []Result
}

func newResultQueue() *resultQueue {
	q := &resultQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *resultQueue) push(batch []Result) {
	q.mu.Lock()
	q.results = append(q.results, batch...)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pipeline drives the bee/ant render over a scene: bees claim pixel
// batches from the task queue, run the path-tracing kernel without
// holding any lock, and report results; the ant drains results under a
// store transaction, amortizing insert cost across many path records.
type Pipeline struct {
	Scene     *scene.Scene
	Kernel    *integrator.Kernel
	Config    Config
	Framebuffer *Framebuffer
	Store     store.Store
	Serializer *store.Serializer
}

// NewPipeline wires a Pipeline over scene using kernel for radiance
// estimation, writing to framebuffer and persisting via st.
func NewPipeline(s *scene.Scene, kernel *integrator.Kernel, framebuffer *Framebuffer, st store.Store, cfg Config) *Pipeline {
	return &Pipeline{
		Scene:       s,
		Kernel:      kernel,
		Config:      cfg,
		Framebuffer: framebuffer,
		Store:       st,
		Serializer:  store.NewSerializer(),
	}
}

// Run renders every pixel of the framebuffer: it spawns Config.NumWorkers
// bees, runs the ant loop on the calling goroutine until every task has
// been solved, then joins the bees. Returns the first persistence error
// encountered, if any — a fail-loud abort per the error-handling design.
func (p *Pipeline) Run(ctx context.Context) error {
	width, height := p.Framebuffer.Width, p.Framebuffer.Height
	totalTasks := width * height

	queue := &taskQueue{tasks: make([]Task, 0, totalTasks)}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			queue.tasks = append(queue.tasks, Task{Row: row, Col: col})
		}
	}

	results := newResultQueue()
	var stop atomic.Bool

	var wg sync.WaitGroup
	numWorkers := p.Config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go p.bee(i, queue, results, &stop, &wg)
	}

	tickerDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(p.Config.WaitIntervalMs) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				results.cond.Broadcast()
			case <-tickerDone:
				return
			}
		}
	}()

	err := p.ant(ctx, results, totalTasks, &stop)
	close(tickerDone)
	wg.Wait()
	return err
}

// bee repeatedly claims a batch of tasks from queue, renders each pixel
// without holding any lock, and reports its batch of results. It exits
// once the queue yields an empty batch (the task list is static, so
// that means nothing remains) or the stop flag is set.
func (p *Pipeline) bee(id int, queue *taskQueue, results *resultQueue, stop *atomic.Bool, wg *sync.WaitGroup) {
	defer wg.Done()

	rng := core.NewRNG(int64(id) + 1)

	for {
		if stop.Load() {
			return
		}

		batch := queue.take(p.Config.BatchSize)
		if len(batch) == 0 {
			return
		}

		batchResults := make([]Result, 0, len(batch))
		for _, task := range batch {
			radiance, paths := renderPixel(p.Kernel, p.Scene.Camera, task.Row, task.Col, p.Config.SPP, rng)
			batchResults = append(batchResults, Result{Row: task.Row, Col: task.Col, Radiance: radiance, Paths: paths})
		}

		results.push(batchResults)
	}
}

// ant is the coordinator: it waits on the result queue's condition
// variable (bounded by the ticker above), drains whatever has
// accumulated, and writes it to the framebuffer and the store inside one
// transaction per drain. It returns once every task has been solved.
func (p *Pipeline) ant(ctx context.Context, results *resultQueue, totalTasks int, stop *atomic.Bool) error {
	solved := 0

	for solved < totalTasks {
		results.mu.Lock()
		if len(results.results) == 0 {
			results.cond.Wait()
		}
		batch := results.results
		results.results = nil
		results.mu.Unlock()

		if len(batch) == 0 {
			continue
		}

		if err := p.commitBatch(ctx, batch); err != nil {
			stop.Store(true)
			return err
		}
		solved += len(batch)
	}

	log.Info().Int("pixels", solved).Msg("render complete")
	return nil
}

func (p *Pipeline) commitBatch(ctx context.Context, batch []Result) error {
	tx, err := p.Store.Begin(ctx)
	if err != nil {
		return err
	}

	for _, result := range batch {
		p.Framebuffer.Set(result.Col, result.Row, result.Radiance)
		for _, path := range result.Paths {
			if err := p.Serializer.InsertPath(ctx, tx, result.Row, result.Col, path); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	return tx.Commit()
}

// renderPixel averages SPP independent path samples through pixel
// (row, col): pixel_radiance = (1/SPP) * sum(path[0].Lo).
func renderPixel(kernel *integrator.Kernel, cam *scene.Camera, row, col, spp int, rng *core.RNG) (core.Vec3, []integrator.Path) {
	sum := core.Vec3{}
	paths := make([]integrator.Path, 0, spp)

	for i := 0; i < spp; i++ {
		ray := cam.RayForPixel(col, row)
		path := kernel.CastRay(ray, rng)
		sum = sum.Add(path[0].Lo)
		paths = append(paths, path)
	}

	return sum.Multiply(1.0 / float64(spp)), paths
}

package renderer

import (
	"runtime"
	"sync"
)

// RowTask represents one image row of a frame for the worker pool
type RowTask struct {
	Frame   *frameJob
	Row     int
	Results chan<- RowResult // Owned by the Render call that submitted the task
}

// RowResult contains the counters from rendering a row
type RowResult struct {
	Row   int
	Stats RenderStats
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue  chan RowTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID        int
	taskQueue chan RowTask
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan RowTask, numWorkers*4),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			taskQueue: wp.taskQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers once queued tasks are done
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Rows cover disjoint byte ranges of the buffer, so no locking is needed
		stats := task.Frame.renderRow(task.Row)
		task.Results <- RowResult{Row: task.Row, Stats: stats}
	}
}

package services

import (
	"context"
	"sync"

	"musicvault/logger"
	"musicvault/types"
)

// Uploader is the single-file import operation a batch fans out to
type Uploader interface {
	Upload(ctx context.Context, sourcePath string) (types.Track, error)
}

// BatchImporter imports many files with a fixed number of workers
type BatchImporter struct {
	uploader   Uploader
	maxWorkers int
}

// NewBatchImporter creates a batch importer. maxWorkers below 1 means 1.
func NewBatchImporter(uploader Uploader, maxWorkers int) *BatchImporter {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &BatchImporter{
		uploader:   uploader,
		maxWorkers: maxWorkers,
	}
}

type batchJob struct {
	index int
	path  string
}

// ImportAll uploads every path and returns one result per path in input
// order. onDone, if set, is called once per finished file from the worker
// goroutines. Paths not yet started when ctx is cancelled fail with ctx.Err().
func (b *BatchImporter) ImportAll(ctx context.Context, paths []string, onDone func(types.ImportResult)) []types.ImportResult {
	results := make([]types.ImportResult, len(paths))
	queue := make(chan batchJob, len(paths))

	for i, p := range paths {
		queue <- batchJob{index: i, path: p}
	}
	close(queue)

	workers := min(b.maxWorkers, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(ctx, queue, results, onDone)
		}()
	}
	wg.Wait()

	return results
}

// worker processes jobs from the queue
func (b *BatchImporter) worker(ctx context.Context, queue <-chan batchJob, results []types.ImportResult, onDone func(types.ImportResult)) {
	for job := range queue {
		result := types.ImportResult{SourcePath: job.path}

		if err := ctx.Err(); err != nil {
			result.Error = err.Error()
		} else if track, err := b.uploader.Upload(ctx, job.path); err != nil {
			result.Error = err.Error()
			logger.Warn("batch import failed",
				logger.String("source", job.path),
				logger.ErrorField(err))
		} else {
			result.Track = &track
		}

		results[job.index] = result
		if onDone != nil {
			onDone(result)
		}
	}
}

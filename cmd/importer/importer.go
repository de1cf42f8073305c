package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

type ingester interface {
	Ingest(ctx context.Context, input usecase.UploadInput) (usecase.IngestionResult, error)
}

// fileSummary is one line of importer output.
type fileSummary struct {
	File       string                  `json:"file"`
	Result     usecase.IngestionResult `json:"result"`
	Error      string                  `json:"error,omitempty"`
	DurationMs int64                   `json:"durationMs"`
}

func (s fileSummary) failed() bool {
	return !s.Result.Success
}

type importReport struct {
	Files       []fileSummary
	FailedCount int
}

// importFiles ingests every path on a bounded pool. Summaries keep the order of paths.
func importFiles(ctx context.Context, svc ingester, paths []string, workers int) (importReport, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return importReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	summaries := make([]fileSummary, len(paths))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for i, path := range paths {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			summaries[i] = ingestFile(ctx, svc, path)
			if summaries[i].failed() {
				failed.Add(1)
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return importReport{}, fmt.Errorf("submit %s to worker pool: %w", path, err)
		}
	}
	wg.Wait()

	return importReport{Files: summaries, FailedCount: int(failed.Load())}, nil
}

func ingestFile(ctx context.Context, svc ingester, path string) fileSummary {
	started := time.Now()
	summary := fileSummary{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		summary.Result.Message = "Could not read file"
		summary.Error = err.Error()
		return finish(summary, started)
	}

	result, err := svc.Ingest(ctx, usecase.UploadInput{
		FileName: filepath.Base(path),
		Size:     int64(len(data)),
		Data:     data,
	})
	if err != nil {
		summary.Result = failureResult(err)
		summary.Error = err.Error()
		return finish(summary, started)
	}

	summary.Result = result
	return finish(summary, started)
}

func finish(summary fileSummary, started time.Time) fileSummary {
	summary.DurationMs = time.Since(started).Milliseconds()
	return summary
}

func failureResult(err error) usecase.IngestionResult {
	var ingestErr *usecase.IngestionError
	if errors.As(err, &ingestErr) {
		return usecase.IngestionResult{
			Success:        false,
			Message:        ingestErr.Message,
			InvalidCount:   ingestErr.InvalidRowCount,
			InvalidRecords: ingestErr.InvalidRows,
		}
	}
	return usecase.IngestionResult{Success: false, Message: "Error processing CSV file"}
}

// writeSummaries prints one JSON document per line.
func writeSummaries(w io.Writer, summaries []fileSummary) error {
	encoder := sonic.ConfigDefault.NewEncoder(w)
	for _, summary := range summaries {
		if err := encoder.Encode(summary); err != nil {
			return fmt.Errorf("encode summary for %s: %w", summary.File, err)
		}
	}
	return nil
}

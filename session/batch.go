package session

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/jsphweid/harmonycheck/logger"
	"github.com/jsphweid/harmonycheck/model"
	"golang.org/x/sync/errgroup"
)

// Job is one score to analyze. Load runs on a worker, so parsing happens
// in parallel too.
type Job struct {
	ID   string
	Load func() (*model.Score, error)
}

func ScoreJob(id string, score *model.Score) Job {
	return Job{ID: id, Load: func() (*model.Score, error) { return score, nil }}
}

type Result struct {
	ID      string
	Session *Session
	Report  model.AnalysisReport
	Err     error
}

// Batch analyzes jobs on at most workers goroutines (NumCPU when workers
// <= 0). A failing job only fails its own Result. Results come back sorted
// by ID; progress, if set, is called once per finished job.
func Batch(ctx context.Context, jobs []Job, workers int, progress func(Result), opts ...Option) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res := runJob(ctx, job, opts)
			results[i] = res
			if progress != nil {
				mu.Lock()
				progress(res)
				mu.Unlock()
			}
			return nil
		})
	}
	// jobs never return errors, they are carried in Result
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

func runJob(ctx context.Context, job Job, opts []Option) Result {
	res := Result{ID: job.ID}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	score, err := job.Load()
	if err != nil {
		logger.Warn("Could not load score", logger.Fields{"source": job.ID, "error": err.Error()})
		res.Err = err
		return res
	}

	s := New(score, opts...)
	res.Session = s
	if _, err := s.Analyze(ctx); err != nil {
		res.Err = err
		return res
	}
	res.Report = s.Report()
	return res
}

// Package job is the Conversion Job Service (component J): the only
// package in this tree safe to call from multiple goroutines at
// once. It gives a later HTTP handler a believable home while
// keeping the conversion core (components A-I) synchronous and
// single-threaded per invocation, per the "no shared state below J"
// rule.
package job

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/trantaidat7388-dot/word2latex/internal/convert"
	"github.com/trantaidat7388-dot/word2latex/internal/logging"
)

// Status is a Job's lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is one conversion request and its eventual outcome. mu guards
// the mutable fields (Status/Result/Err) since Submit's goroutine and
// any reader of Get race on them.
type Job struct {
	ID       string
	Input    string // path to the source .docx
	Template string // path to the target .tex template
	AssetDir string

	mu     sync.RWMutex
	status Status
	result convert.Result
	err    error
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Result returns the job's outcome. Valid only once Status reports
// StatusDone or StatusFailed.
func (j *Job) Result() (convert.Result, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.result, j.err
}

func (j *Job) setRunning() {
	j.mu.Lock()
	j.status = StatusRunning
	j.mu.Unlock()
}

func (j *Job) finish(result convert.Result, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.err = err
	if err != nil {
		j.status = StatusFailed
	} else {
		j.status = StatusDone
	}
}

// Store is the in-memory job registry: one entry per submitted job,
// guarded by a single RWMutex since jobs are added far more often
// than the whole map is walked.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	nextID  int64
	Options convert.Options
}

// NewStore builds an empty job store using the given conversion
// options for every job it submits.
func NewStore(opts convert.Options) *Store {
	return &Store{jobs: map[string]*Job{}, Options: opts}
}

func (s *Store) allocateID() string {
	n := atomic.AddInt64(&s.nextID, 1)
	return fmt.Sprintf("job-%d", n)
}

// Submit reads input and template from disk, registers a new Job,
// and starts a goroutine that runs the I->H pipeline against them.
// The goroutine owns its own walker state and temp-file set; nothing
// below Store is shared across concurrently submitted jobs.
func (s *Store) Submit(ctx context.Context, inputPath, templatePath, assetDir string) (*Job, error) {
	docx, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	tmplBytes, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, err
	}

	j := &Job{
		ID:       s.allocateID(),
		Input:    inputPath,
		Template: templatePath,
		AssetDir: assetDir,
		status:   StatusPending,
	}

	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()

	log := logging.ForJob(j.ID)
	j.setRunning()
	log.Infof("converting %s against %s", inputPath, templatePath)
	go func() {
		result, err := convert.Convert(ctx, docx, string(tmplBytes), assetDir, s.Options)
		if err != nil {
			log.Errorf("conversion failed: %v", err)
		} else {
			log.Info("conversion done")
		}
		j.finish(result, err)
	}()

	return j, nil
}

// Get looks a job up by ID.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nischala755/navix-ai/internal/models"
)

const (
	// DefaultInterval is the delay between a resolved status fetch and the
	// next one. The next fetch is scheduled only after the previous one
	// resolves, so a slow backend naturally slows the poll rate instead of
	// stacking overlapping requests.
	DefaultInterval = 1000 * time.Millisecond
	// DefaultSettle is the pause between a completed status and the
	// terminal notification, giving the backend time to persist solutions
	// and the UI a beat to show 100%.
	DefaultSettle = 1500 * time.Millisecond
)

// ErrAlreadyStarted is returned when Start is called twice on one poller
var ErrAlreadyStarted = errors.New("poller already started")

// State is the poller lifecycle state
type State int

const (
	Idle State = iota
	Polling
	Terminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Terminal:
		return "terminal"
	}
	return "unknown"
}

// StatusFetcher reads the current status of a job. Satisfied by
// optimizer.Client.
type StatusFetcher interface {
	GetJobStatus(ctx context.Context, jobID string) (*models.Job, error)
}

// OutcomeKind classifies how polling ended
type OutcomeKind int

const (
	// OutcomeCompleted means the job finished and routes can be fetched
	OutcomeCompleted OutcomeKind = iota
	// OutcomeJobFailed means the backend reported a failed job
	OutcomeJobFailed
	// OutcomeJobCancelled means the job was cancelled server-side
	OutcomeJobCancelled
	// OutcomeTransportFailure means a status fetch itself failed; polling
	// stops immediately rather than retrying
	OutcomeTransportFailure
)

// Outcome describes the terminal result delivered to the owner
type Outcome struct {
	Kind    OutcomeKind
	Job     *models.Job
	Message string
	Err     error
}

// Config wires a poller to its collaborators
type Config struct {
	Fetcher  StatusFetcher
	Clock    Clock         // nil means wall clock
	Interval time.Duration // 0 means DefaultInterval
	Settle   time.Duration // 0 means DefaultSettle

	// OnProgress fires after each non-terminal status fetch
	OnProgress func(job *models.Job)
	// OnTerminal fires exactly once, unless the poller is cancelled first
	OnTerminal func(outcome Outcome)
}

// Poller drives one job through {Idle, Polling, Terminal}. Status fetches
// for the job are strictly sequential: the next fetch is scheduled only
// after the previous one resolves.
type Poller struct {
	fetcher  StatusFetcher
	clock    Clock
	interval time.Duration
	settle   time.Duration

	onProgress func(*models.Job)
	onTerminal func(Outcome)

	mu        sync.Mutex
	state     State
	jobID     string
	timer     Timer
	cancelled bool
	ctx       context.Context
	cancelCtx context.CancelFunc
}

// New creates an idle poller
func New(cfg Config) *Poller {
	p := &Poller{
		fetcher:    cfg.Fetcher,
		clock:      cfg.Clock,
		interval:   cfg.Interval,
		settle:     cfg.Settle,
		onProgress: cfg.OnProgress,
		onTerminal: cfg.OnTerminal,
	}
	if p.clock == nil {
		p.clock = NewRealClock()
	}
	if p.interval == 0 {
		p.interval = DefaultInterval
	}
	if p.settle == 0 {
		p.settle = DefaultSettle
	}
	return p
}

// Start begins polling the given job with an immediate first fetch.
// The job id must be the UUID handed back by the submit call.
func (p *Poller) Start(ctx context.Context, jobID string) error {
	if _, err := uuid.Parse(jobID); err != nil {
		return fmt.Errorf("invalid job id %q: %w", jobID, err)
	}

	p.mu.Lock()
	if p.state != Idle {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.state = Polling
	p.jobID = jobID
	p.ctx, p.cancelCtx = context.WithCancel(ctx)
	p.mu.Unlock()

	log.Printf("[POLLER] Start: job_id=%s", jobID)
	p.poll()
	return nil
}

// Cancel stops polling from any state. Pending timers are stopped, the
// in-flight fetch context is cancelled, and no callback fires afterwards.
// Safe to call repeatedly.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelled {
		return
	}
	p.cancelled = true
	p.state = Terminal
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancelCtx != nil {
		p.cancelCtx()
	}
	log.Printf("[POLLER] Cancelled: job_id=%s", p.jobID)
}

// State returns the current lifecycle state
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// JobID returns the job this poller was started for
func (p *Poller) JobID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID
}

func (p *Poller) poll() {
	p.mu.Lock()
	if p.state != Polling {
		p.mu.Unlock()
		return
	}
	ctx, jobID := p.ctx, p.jobID
	p.timer = nil
	p.mu.Unlock()

	job, err := p.fetcher.GetJobStatus(ctx, jobID)

	p.mu.Lock()
	if p.state != Polling {
		// Cancelled while the fetch was in flight; drop the result
		p.mu.Unlock()
		return
	}

	if err != nil {
		p.state = Terminal
		p.mu.Unlock()
		log.Printf("[ERROR] Poll fetch failed: job_id=%s err=%v", jobID, err)
		p.notify(Outcome{
			Kind:    OutcomeTransportFailure,
			Err:     err,
			Message: "Could not reach the optimization service.",
		})
		return
	}

	switch job.Status {
	case models.JobCompleted:
		p.state = Terminal
		p.timer = p.clock.AfterFunc(p.settle, func() { p.settled(job) })
		p.mu.Unlock()
		log.Printf("[POLLER] Job completed: job_id=%s solutions=%d", jobID, job.SolutionsCount)

	case models.JobFailed:
		p.state = Terminal
		p.mu.Unlock()
		message := job.ErrorMessage
		if message == "" {
			message = "Optimization failed."
		}
		log.Printf("[POLLER] Job failed: job_id=%s message=%s", jobID, message)
		p.notify(Outcome{Kind: OutcomeJobFailed, Job: job, Message: message})

	case models.JobCancelled:
		p.state = Terminal
		p.mu.Unlock()
		log.Printf("[POLLER] Job cancelled server-side: job_id=%s", jobID)
		p.notify(Outcome{Kind: OutcomeJobCancelled, Job: job, Message: "Optimization was cancelled."})

	default:
		// pending, queued, running
		p.timer = p.clock.AfterFunc(p.interval, p.poll)
		p.mu.Unlock()
		if p.onProgress != nil {
			p.onProgress(job)
		}
	}
}

func (p *Poller) settled(job *models.Job) {
	p.mu.Lock()
	if p.cancelled {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	p.notify(Outcome{Kind: OutcomeCompleted, Job: job})
}

func (p *Poller) notify(outcome Outcome) {
	if p.onTerminal != nil {
		p.onTerminal(outcome)
	}
}

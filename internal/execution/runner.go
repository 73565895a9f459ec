package execution

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"xtest/internal/config"
	"xtest/internal/domain"
	"xtest/internal/fixture"
	"xtest/internal/outcome"
)

// State is the lifecycle position of a registered test case
type State int

const (
	Unknown State = iota
	Pending
	Running
	Passed
	Failed
	Skipped
	Aborted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func stateFor(status outcome.Status) State {
	switch status {
	case outcome.Pass:
		return Passed
	case outcome.Fail:
		return Failed
	case outcome.Skip:
		return Skipped
	default:
		return Aborted
	}
}

type pendingCase struct {
	tc    domain.TestCase
	suite string
}

// Runner owns the ordered test list and the result log. Tests run one at a
// time; a failing or aborting test never stops the ones after it.
type Runner struct {
	config    *config.Config
	log       log.Logger
	observers []Observer

	states  map[string]State
	pending []pendingCase
	results []domain.TestResult
	running bool

	firstStart time.Time
	lastEnd    time.Time
}

// NewRunner creates a new Runner. A nil config uses defaults and a nil logger discards.
func NewRunner(cfg *config.Config, logger log.Logger) *Runner {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = log.NewLogger(log.DiscardHandler())
	}
	return &Runner{
		config: cfg,
		log:    logger.New("component", "runner"),
		states: make(map[string]State),
	}
}

// AddObserver subscribes o to run progress
func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Register appends tc to the pending list
func (r *Runner) Register(tc domain.TestCase) error {
	return r.register(tc, "")
}

// RegisterFunc registers body under name
func (r *Runner) RegisterFunc(name string, body domain.Body) error {
	return r.register(domain.TestCase{Name: name, Body: body}, "")
}

// RegisterSuite registers every case of s, or none of them if any is invalid
func (r *Runner) RegisterSuite(s domain.Suite) error {
	seen := make(map[string]bool, len(s.Cases))
	for _, tc := range s.Cases {
		if err := r.validate(tc); err != nil {
			return fmt.Errorf("suite %s: %w", s.Name, err)
		}
		if seen[tc.Name] {
			return fmt.Errorf("suite %s: %w", s.Name, &ConfigurationError{Name: tc.Name, Reason: "duplicate test name"})
		}
		seen[tc.Name] = true
	}
	for _, tc := range s.Cases {
		if err := r.register(tc, s.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) register(tc domain.TestCase, suite string) error {
	if err := r.validate(tc); err != nil {
		return err
	}
	r.states[tc.Name] = Pending
	r.pending = append(r.pending, pendingCase{tc: tc, suite: suite})
	r.log.Debug("Registered test", "suite", suite, "test", tc.Name)
	return nil
}

func (r *Runner) validate(tc domain.TestCase) error {
	switch {
	case r.running:
		return &ConfigurationError{Name: tc.Name, Reason: "cannot register while tests are running"}
	case tc.Name == "":
		return &ConfigurationError{Reason: "test name is empty"}
	case tc.Body == nil:
		return &ConfigurationError{Name: tc.Name, Reason: "test body is nil"}
	}
	if _, exists := r.states[tc.Name]; exists {
		return &ConfigurationError{Name: tc.Name, Reason: "duplicate test name"}
	}
	return nil
}

// Run executes every pending test with no fixture and returns their results
func (r *Runner) Run() []domain.TestResult {
	return r.runGroup("", fixture.None{})
}

// RunFixture executes every pending test between one f.Setup and one f.Teardown
func (r *Runner) RunFixture(f fixture.Fixture) []domain.TestResult {
	return r.runGroup("", f)
}

// RunSuite registers the cases of s and runs them under its fixture
func (r *Runner) RunSuite(s domain.Suite) ([]domain.TestResult, error) {
	if len(r.pending) > 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%d tests are already pending", len(r.pending))}
	}
	if err := r.RegisterSuite(s); err != nil {
		return nil, err
	}
	return r.runGroup(s.Name, s.Fixture), nil
}

func (r *Runner) runGroup(suite string, f fixture.Fixture) []domain.TestResult {
	batch := r.pending
	r.pending = nil

	group := Group{Suite: suite, Fixture: fixture.Name(f), Size: len(batch)}
	start := time.Now()
	if r.firstStart.IsZero() {
		r.firstStart = start
	}

	r.running = true
	defer func() { r.running = false }()

	for _, o := range r.observers {
		o.GroupStarted(group)
	}
	r.log.Info("Running test group", "suite", group.Suite, "fixture", group.Fixture, "tests", group.Size)

	results := make([]domain.TestResult, 0, len(batch))
	switch {
	case len(batch) == 0:
		// nothing pending: the fixture is not touched
	case r.config.DryRun:
		for i, pc := range batch {
			results = append(results, r.record(pc, i, domain.TestResult{
				Status:  outcome.Skip,
				Message: "dry run",
			}))
		}
	default:
		err := fixture.Within(f, func() {
			for i, pc := range batch {
				results = append(results, r.execute(pc, i))
			}
		})
		switch {
		case errors.Is(err, fixture.ErrSetup):
			r.log.Warn("Fixture setup failed", "fixture", group.Fixture, "err", err)
			for i, pc := range batch {
				results = append(results, r.record(pc, i, domain.TestResult{
					Status:  outcome.Abort,
					Message: err.Error(),
				}))
			}
		case err != nil:
			r.log.Warn("Fixture teardown failed", "fixture", group.Fixture, "err", err)
			last := &results[len(results)-1]
			last.Diagnostics = append(last.Diagnostics, err.Error())
		}
	}

	r.results = append(r.results, results...)
	r.lastEnd = time.Now()

	stats := domain.ComputeStats(results)
	r.log.Info("Test group finished", "suite", group.Suite, "passed", stats.Passed, "failed", stats.Failed,
		"skipped", stats.Skipped, "aborted", stats.Aborted, "duration", r.lastEnd.Sub(start))
	for _, o := range r.observers {
		o.GroupFinished(group, results, r.lastEnd.Sub(start))
	}
	return results
}

// execute runs one test, repeating it while it passes
func (r *Runner) execute(pc pendingCase, index int) domain.TestResult {
	r.states[pc.tc.Name] = Running
	for _, o := range r.observers {
		o.TestStarted(pc.tc, index)
	}
	r.log.Debug("Running test", "suite", pc.suite, "test", pc.tc.Name)

	start := time.Now()
	repeat := r.config.Repeat
	if repeat < 1 {
		repeat = 1
	}
	var result domain.TestResult
	for i := 1; i <= repeat; i++ {
		result = r.invoke(pc.tc)
		result.Iterations = i
		if result.Status != outcome.Pass {
			if repeat > 1 {
				result.Notes = append(result.Notes, fmt.Sprintf("stopped on iteration %d of %d", i, repeat))
			}
			break
		}
	}
	result.Duration = time.Since(start)
	return r.finish(pc, index, result)
}

// record stores a result for a test whose body never ran
func (r *Runner) record(pc pendingCase, index int, result domain.TestResult) domain.TestResult {
	for _, o := range r.observers {
		o.TestStarted(pc.tc, index)
	}
	return r.finish(pc, index, result)
}

func (r *Runner) finish(pc pendingCase, index int, result domain.TestResult) domain.TestResult {
	result.Name = pc.tc.Name
	result.Suite = pc.suite
	r.states[pc.tc.Name] = stateFor(result.Status)
	r.log.Debug("Test finished", "suite", pc.suite, "test", pc.tc.Name, "status", result.Status,
		"duration", result.Duration)
	for _, o := range r.observers {
		o.TestFinished(result, index)
	}
	return result
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// invoke runs the body once on its own goroutine and waits for it. Panics and
// runtime.Goexit end that goroutine only; both are turned into a result here.
func (r *Runner) invoke(tc domain.TestCase) domain.TestResult {
	sig := outcome.New()
	var (
		returned bool
		panicErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if v := recover(); v != nil {
				panicErr = errors.Errorf("panic: %v", v)
			}
		}()
		tc.Body(sig)
		returned = true
	}()
	<-done

	status, message := sig.State()
	result := domain.TestResult{
		Status:      status,
		Message:     message,
		Diagnostics: sig.Diagnostics(),
		Notes:       sig.Notes(),
	}
	switch {
	case panicErr != nil:
		if status != outcome.Unset {
			result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("reported %s before panicking", status))
		}
		result.Status = outcome.Abort
		result.Message = panicErr.Error()
		if st, ok := panicErr.(stackTracer); ok {
			result.Stack = fmt.Sprintf("%+v", st.StackTrace())
		}
	case status == outcome.Unset && !returned:
		result.Status = outcome.Abort
		result.Message = "test body exited without reporting an outcome"
	case status == outcome.Unset:
		result.Status = outcome.Pass
	}
	return result
}

// Results returns a copy of the result log in execution order
func (r *Runner) Results() []domain.TestResult {
	return append([]domain.TestResult(nil), r.results...)
}

// Stats recomputes the statistics from the result log
func (r *Runner) Stats() domain.Stats {
	return domain.ComputeStats(r.results)
}

// State returns the lifecycle state of a registered test
func (r *Runner) State(name string) State {
	return r.states[name]
}

// Pending returns the number of registered tests that have not run yet
func (r *Runner) Pending() int {
	return len(r.pending)
}

// Elapsed returns the time from the first group start to the last group end
func (r *Runner) Elapsed() time.Duration {
	if r.firstStart.IsZero() {
		return 0
	}
	return r.lastEnd.Sub(r.firstStart)
}

// Package pipeline implements the six-stage meeting analysis run: extraction,
// owner resolution, deadline resolution, validation, follow-up message
// generation, and notification simulation. Stages execute strictly in order
// over one shared ProcessingState; extraction failure aborts the run, the
// resolution and generation stages degrade to flagged or templated results
// instead of failing.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
)

// Stage names a pipeline stage for logs and error reporting.
type Stage string

const (
	StageExtract          Stage = "extraction"
	StageResolveOwners    Stage = "owner_resolution"
	StageResolveDeadlines Stage = "deadline_resolution"
	StageValidate         Stage = "validation"
	StageGenerateMessages Stage = "message_generation"
	StageSimulateNotify   Stage = "notification_simulation"
)

// StageError reports which stage aborted the run. State accumulated by
// earlier stages is preserved on the ProcessingState for diagnostics.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options tunes a Pipeline.
type Options struct {
	// ConfidenceThreshold is the review-flag cutoff for match confidence.
	ConfidenceThreshold float64
	// MessageConcurrency bounds concurrent message-generation calls.
	MessageConcurrency int
	// Now supplies timestamps; nil means time.Now. Injected by tests.
	Now func() time.Time
}

// Pipeline runs meeting transcripts through the six stages.
type Pipeline struct {
	newCompleter func(gateway.Recorder) gateway.Completer
	threshold    float64
	msgWorkers   int
	now          func() time.Time
}

// New creates a pipeline. newCompleter is called once per run with a recorder
// bound to that run's audit notes.
func New(newCompleter func(gateway.Recorder) gateway.Completer, opts Options) *Pipeline {
	p := &Pipeline{
		newCompleter: newCompleter,
		threshold:    opts.ConfidenceThreshold,
		msgWorkers:   opts.MessageConcurrency,
		now:          opts.Now,
	}
	if p.threshold <= 0 {
		p.threshold = 0.7
	}
	if p.msgWorkers <= 0 {
		p.msgWorkers = 4
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes the six stages in order and builds the final output snapshot
// exactly once, after the last stage completes. An empty runID gets a fresh
// UUID. On a stage failure the returned error is a *StageError and no output
// is produced.
func (p *Pipeline) Run(ctx context.Context, runID string, state *model.ProcessingState) (*model.FinalOutput, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	started := p.now()
	log := zap.L().With(zap.String("run_id", runID))

	// Message generation fans out, so note recording must be safe for
	// concurrent gateway attempts.
	var noteMu sync.Mutex
	comp := p.newCompleter(func(note string) {
		noteMu.Lock()
		defer noteMu.Unlock()
		state.AddNote("%s", note)
	})

	stages := []struct {
		name Stage
		fn   func(context.Context, gateway.Completer, *model.ProcessingState) error
	}{
		{StageExtract, p.extract},
		{StageResolveOwners, p.resolveOwners},
		{StageResolveDeadlines, p.resolveDeadlines},
		{StageValidate, p.validate},
		{StageGenerateMessages, p.generateMessages},
		{StageSimulateNotify, p.simulateNotifications},
	}

	for _, s := range stages {
		stageStart := p.now()
		if err := s.fn(ctx, comp, state); err != nil {
			log.Error("stage failed",
				zap.String("stage", string(s.name)),
				zap.Error(err),
			)
			return nil, &StageError{Stage: s.name, Err: err}
		}
		state.StageCompleted = string(s.name)
		log.Info("stage complete",
			zap.String("stage", string(s.name)),
			zap.Duration("duration", p.now().Sub(stageStart)),
		)
	}

	generatedAt := p.now()
	out := &model.FinalOutput{
		MeetingSummary:     Summary(state),
		ActionItems:        state.ActionItems,
		Decisions:          state.Decisions,
		Risks:              state.Risks,
		FollowUpMessages:   state.FollowUpMessages,
		NotificationEvents: state.NotificationEvents,
		Metadata: model.Metadata{
			RunID:            runID,
			ReferenceDate:    state.ReferenceDate,
			GeneratedAt:      generatedAt,
			DurationMS:       generatedAt.Sub(started).Milliseconds(),
			ActionItems:      len(state.ActionItems),
			Decisions:        len(state.Decisions),
			Risks:            len(state.Risks),
			FlaggedForReview: state.ReviewCount(),
			ProcessingNotes:  state.ProcessingNotes,
		},
	}

	log.Info("run complete",
		zap.Int("action_items", len(state.ActionItems)),
		zap.Int("decisions", len(state.Decisions)),
		zap.Int("risks", len(state.Risks)),
		zap.Int("flagged_for_review", out.Metadata.FlaggedForReview),
		zap.Duration("duration", generatedAt.Sub(started)),
	)

	return out, nil
}

package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/gateway"
	"github.com/sells-group/meeting-agent/internal/model"
	"github.com/sells-group/meeting-agent/internal/pipeline"
	"github.com/sells-group/meeting-agent/internal/store"
	"github.com/sells-group/meeting-agent/pkg/anthropic"
)

// initStore opens the run-history database and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// buildPipeline wires the Anthropic client and gateway into a pipeline.
func buildPipeline() *pipeline.Pipeline {
	client := anthropic.NewClient(cfg.Anthropic.Key)
	gwCfg := gateway.Config{
		Model:       cfg.Anthropic.Model,
		Temperature: cfg.Gateway.Temperature,
		MaxTokens:   cfg.Gateway.MaxTokens,
		CallTimeout: time.Duration(cfg.Gateway.TimeoutSecs) * time.Second,
		MaxAttempts: cfg.Gateway.MaxAttempts,
		RateLimit:   cfg.Gateway.RateLimitRPS,
	}

	return pipeline.New(
		func(rec gateway.Recorder) gateway.Completer {
			return gateway.New(client, gwCfg, rec)
		},
		pipeline.Options{ConfidenceThreshold: cfg.Pipeline.ConfidenceThreshold},
	)
}

// resolveReferenceDate picks the deadline anchor: the explicit flag wins,
// then the configured date, then today.
func resolveReferenceDate(flagValue string) (model.Date, error) {
	raw := flagValue
	if raw == "" {
		raw = cfg.Pipeline.ReferenceDate
	}
	if raw == "" {
		return model.DateOf(time.Now()), nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, eris.Wrapf(err, "parse reference date %q", raw)
	}
	return d, nil
}

// executeRun runs one transcript through the pipeline and records the outcome
// in the store. The run record is updated even when a stage aborts.
func executeRun(ctx context.Context, st store.Store, p *pipeline.Pipeline, source string, state *model.ProcessingState) (*model.FinalOutput, error) {
	run, err := st.CreateRun(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "create run record")
	}

	out, err := p.Run(ctx, run.ID, state)
	if err != nil {
		if uerr := st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed, err.Error()); uerr != nil {
			zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(uerr))
		}
		return nil, err
	}

	if uerr := st.UpdateRunResult(ctx, run.ID, out); uerr != nil {
		zap.L().Warn("failed to record run result", zap.String("run_id", run.ID), zap.Error(uerr))
	}

	return out, nil
}

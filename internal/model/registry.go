package model

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"comfortsense/internal/config"
	"comfortsense/internal/types"
)

// entry is the load outcome for one artifact target.
type entry struct {
	target    types.ModelTarget
	path      string
	regressor Regressor
	loadErr   error
	loadedAt  time.Time
}

// Registry holds the process-lifetime regressor handles. Both artifacts are
// loaded once at startup; a failed load is recorded per target and the
// registry keeps serving, leaving the comfort service to substitute fallback
// predictions. Registry is immutable after LoadRegistry returns.
type Registry struct {
	pmv entry
	ppd entry
}

// LoadRegistry reads both artifacts concurrently, bounded by the configured
// load timeout. It never returns an error for a bad artifact: load failures
// are captured in the registry status so the process can start degraded.
func LoadRegistry(ctx context.Context, cfg config.ModelsConfig, logger *slog.Logger) *Registry {
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	reg := &Registry{
		pmv: entry{target: types.TargetPMV, path: cfg.PMVPath},
		ppd: entry{target: types.TargetPPD, path: cfg.PPDPath},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range []*entry{&reg.pmv, &reg.ppd} {
		e := e
		g.Go(func() error {
			e.regressor, e.loadErr = loadWithContext(ctx, e.path)
			if e.loadErr != nil {
				logger.Error("model artifact load failed; predictions degrade to fallback",
					"target", string(e.target),
					"path", e.path,
					"error", e.loadErr)
				return nil
			}
			e.loadedAt = time.Now().UTC()
			logger.Info("model artifact loaded",
				"target", string(e.target),
				"path", e.path,
				"kind", string(e.regressor.Kind()))
			return nil
		})
	}

	// Goroutines never return errors, so Wait only synchronizes.
	_ = g.Wait()

	return reg
}

// loadWithContext runs LoadArtifact but honors the deadline: file reads have
// no native cancellation, so the result is discarded if the context expires
// first.
func loadWithContext(ctx context.Context, path string) (Regressor, error) {
	type result struct {
		reg Regressor
		err error
	}
	ch := make(chan result, 1)
	go func() {
		reg, err := LoadArtifact(path)
		ch <- result{reg, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("artifact load timed out: %w", ctx.Err())
	case r := <-ch:
		return r.reg, r.err
	}
}

// PMV returns the PMV regressor. ok is false when its artifact failed to load.
func (r *Registry) PMV() (Regressor, bool) {
	return r.pmv.regressor, r.pmv.loadErr == nil && r.pmv.regressor != nil
}

// PPD returns the PPD regressor. ok is false when its artifact failed to load.
func (r *Registry) PPD() (Regressor, bool) {
	return r.ppd.regressor, r.ppd.loadErr == nil && r.ppd.regressor != nil
}

// Available reports whether both regressors are loaded. Predictions fall back
// as a pair, so one missing artifact makes the whole registry unavailable.
func (r *Registry) Available() bool {
	_, pmvOK := r.PMV()
	_, ppdOK := r.PPD()
	return pmvOK && ppdOK
}

// Status reports the load state of both artifacts in fixed target order.
func (r *Registry) Status() []types.ArtifactStatus {
	out := make([]types.ArtifactStatus, 0, 2)
	for _, e := range []*entry{&r.pmv, &r.ppd} {
		s := types.ArtifactStatus{
			Target:   e.target,
			Path:     e.path,
			Loaded:   e.loadErr == nil && e.regressor != nil,
			LoadedAt: e.loadedAt,
		}
		if s.Loaded {
			s.Kind = string(e.regressor.Kind())
		} else if e.loadErr != nil {
			s.Error = e.loadErr.Error()
		}
		out = append(out, s)
	}
	return out
}

// Name implements the health probe contract.
func (r *Registry) Name() string { return "models" }

// Check implements the health probe contract. The probe fails when either
// artifact is missing; the API still answers with fallback predictions, but
// the degradation must be visible to monitoring.
func (r *Registry) Check(_ context.Context) error {
	for _, e := range []*entry{&r.pmv, &r.ppd} {
		if e.loadErr != nil {
			return fmt.Errorf("%s artifact unavailable: %w", e.target, e.loadErr)
		}
		if e.regressor == nil {
			return fmt.Errorf("%s artifact not loaded", e.target)
		}
	}
	return nil
}

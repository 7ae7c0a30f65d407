package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Phase is a single lifecycle hook.
type Phase string

const (
	PhasePreEnable   Phase = "preEnable"
	PhaseEnable      Phase = "enable"
	PhasePostEnable  Phase = "postEnable"
	PhasePreDisable  Phase = "preDisable"
	PhaseDisable     Phase = "disable"
	PhasePostDisable Phase = "postDisable"
)

// Order selects how a module sequence is traversed.
type Order int

const (
	LoadOrder Order = iota
	ReverseOrder
)

// LifecycleRunner drives the enable and disable hooks of modules, one module
// at a time.
type LifecycleRunner struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

// Enable runs preEnable, enable and postEnable, stopping at the first error.
func (r *LifecycleRunner) Enable(ctx context.Context, rm RegisteredModule) error {
	m := rm.Module
	steps := []struct {
		phase Phase
		fn    func(context.Context) error
	}{
		{PhasePreEnable, m.PreEnable},
		{PhaseEnable, m.Enable},
		{PhasePostEnable, m.PostEnable},
	}
	for _, s := range steps {
		if err := r.invoke(ctx, rm, s.phase, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// Disable runs preDisable, disable and postDisable, stopping at the first
// error.
func (r *LifecycleRunner) Disable(ctx context.Context, rm RegisteredModule) error {
	m := rm.Module
	steps := []struct {
		phase Phase
		fn    func(context.Context) error
	}{
		{PhasePreDisable, m.PreDisable},
		{PhaseDisable, m.Disable},
		{PhasePostDisable, m.PostDisable},
	}
	for _, s := range steps {
		if err := r.invoke(ctx, rm, s.phase, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// EnableAll enables mods in the given order. It aborts at the first failing
// module; done is called for each module that finished all three hooks.
func (r *LifecycleRunner) EnableAll(ctx context.Context, mods []RegisteredModule, order Order, done func(RegisteredModule)) error {
	for _, rm := range traverse(mods, order) {
		r.logger().Info("start loading module", "module", rm.Name)
		if err := r.Enable(ctx, rm); err != nil {
			return err
		}
		r.logger().Info("successfully loaded module", "module", rm.Name)
		if done != nil {
			done(rm)
		}
	}
	return nil
}

// DisableAll disables every module in the given order. A failing module does
// not stop the others; all failures are joined into the returned error.
func (r *LifecycleRunner) DisableAll(ctx context.Context, mods []RegisteredModule, order Order, done func(RegisteredModule, error)) error {
	var errs []error
	for _, rm := range traverse(mods, order) {
		r.logger().Info("stopping module", "module", rm.Name)
		err := r.Disable(ctx, rm)
		if err != nil {
			errs = append(errs, err)
		}
		if done != nil {
			done(rm, err)
		}
	}
	return errors.Join(errs...)
}

func (r *LifecycleRunner) invoke(ctx context.Context, rm RegisteredModule, phase Phase, fn func(context.Context) error) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		r.Metrics.observeHook(phase, time.Since(start))
		if err != nil {
			stage := StageLifecycle
			if phase == PhasePreDisable || phase == PhaseDisable || phase == PhasePostDisable {
				stage = StageUnload
			}
			err = &LoadError{Stage: stage, Module: rm.Name, Phase: phase, Err: err}
		}
	}()
	return fn(ctx)
}

func (r *LifecycleRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func traverse(mods []RegisteredModule, order Order) []RegisteredModule {
	out := make([]RegisteredModule, 0, len(mods))
	if order == ReverseOrder {
		for i := len(mods) - 1; i >= 0; i-- {
			out = append(out, mods[i])
		}
		return out
	}
	return append(out, mods...)
}

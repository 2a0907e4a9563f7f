package cleaner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// OptimizeSystem runs the optimization steps in order and returns one
// action per step:
//
//  1. each fixed volume is TRIMmed if its media is solid state and
//     defragmented otherwise; removable and other volumes are left alone
//  2. the current user's startup list is cleared, if enabled
//  3. each configured service is set to disabled and stopped
//
// A media probe that fails counts as not solid state. External tools run
// to completion unless ctx is cancelled.
func (e *Executor) OptimizeSystem(ctx context.Context) types.OptimizationReport {
	start := time.Now()
	report := types.OptimizationReport{ID: uuid.NewString(), Actions: []types.Action{}}
	log := logging.Get("cleaner").With("run", report.ID)
	record := func(a types.Action) {
		report.Actions = append(report.Actions, a)
		if a.Failed() {
			log.Warn("optimization step failed", "kind", a.Kind, "target", a.Target, "error", a.Err)
		} else {
			log.Info("optimization step", "kind", a.Kind, "target", a.Target, "result", a.Message)
		}
	}

	e.optimizeVolumes(ctx, record)
	if e.cfg.ClearAutorun {
		e.clearAutorun(record)
	}
	e.disableServices(ctx, record)

	report.Elapsed = time.Since(start)
	log.Info("optimization finished", "actions", len(report.Actions), "failed", len(report.Failures()))
	return report
}

func (e *Executor) optimizeVolumes(ctx context.Context, record func(types.Action)) {
	log := logging.Get("cleaner")

	vols, err := e.tools.Disks.Volumes()
	if err != nil {
		record(types.Action{
			Kind:    types.ActionVolumes,
			Target:  "volumes",
			Message: "cannot enumerate volumes",
			Err:     err.Error(),
		})
		return
	}

	// Bind mounts and subvolumes list one device several times; it is
	// optimized once, at its first mount.
	seen := make(map[string]bool, len(vols))
	for _, vol := range vols {
		if vol.Kind != platform.VolumeFixed {
			log.Debug("skipping volume", "volume", vol.Name(), "kind", vol.Kind)
			continue
		}
		if seen[vol.Name()] {
			log.Debug("skipping repeated mount", "volume", vol.Name(), "mount", vol.Mount)
			continue
		}
		seen[vol.Name()] = true

		media, err := e.tools.Disks.MediaType(ctx, vol)
		if err != nil {
			log.Debug("media probe failed, treating as rotational", "volume", vol.Name(), "error", err)
		}

		if platform.IsSSD(media) {
			record(e.runStep(ctx, types.ActionTrim, vol.Name(), e.tools.Commands.Trim(vol), "TRIM"))
		} else {
			record(e.runStep(ctx, types.ActionDefrag, vol.Name(), e.tools.Commands.Defrag(vol), "defragmentation"))
		}
	}
}

func (e *Executor) runStep(ctx context.Context, kind types.ActionKind, target string, argv []string, what string) types.Action {
	a := types.Action{Kind: kind, Target: target}
	if _, err := platform.Exec(ctx, e.tools.Runner, argv); err != nil {
		a.Message = what + " failed"
		a.Err = err.Error()
		return a
	}
	a.Message = what + " completed"
	return a
}

func (e *Executor) clearAutorun(record func(types.Action)) {
	removed, err := e.tools.Autorun.Clear()
	a := types.Action{
		Kind:    types.ActionAutorun,
		Target:  "startup",
		Message: fmt.Sprintf("removed %d startup entries", removed),
	}
	if err != nil {
		a.Err = err.Error()
	}
	record(a)
}

func (e *Executor) disableServices(ctx context.Context, record func(types.Action)) {
	log := logging.Get("cleaner")

	for _, svc := range e.cfg.Services {
		a := types.Action{Kind: types.ActionService, Target: svc}

		if _, err := platform.Exec(ctx, e.tools.Runner, e.tools.Commands.DisableService(svc)); err != nil {
			a.Message = "cannot disable service"
			a.Err = err.Error()
			record(a)
			continue
		}

		a.Message = "disabled and stopped"
		if _, err := platform.Exec(ctx, e.tools.Runner, e.tools.Commands.StopService(svc)); err != nil {
			// Usually the service simply was not running.
			log.Debug("stop service failed", "service", svc, "error", err)
			a.Message = "disabled"
		}
		record(a)
	}
}

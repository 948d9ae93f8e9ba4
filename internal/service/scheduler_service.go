package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/catalog"
	"github.com/noah-isme/timetable-engine/internal/conflict"
	"github.com/noah-isme/timetable-engine/internal/dto"
	"github.com/noah-isme/timetable-engine/internal/models"
	"github.com/noah-isme/timetable-engine/internal/solver"
	"github.com/noah-isme/timetable-engine/pkg/config"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
	"github.com/noah-isme/timetable-engine/pkg/metrics"
)

// SchedulerService is the engine facade the web and monitoring layers call:
// generate a timetable, check a slot set for conflicts, repair a broken one.
// Each call is independent; no solver state survives between runs.
type SchedulerService struct {
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewSchedulerService wires the facade. Nil arguments fall back to no-op or
// default implementations so tests and minimal embeds stay cheap.
func NewSchedulerService(validate *validator.Validate, logger *zap.Logger, m *metrics.Metrics, cfg *config.Config) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &SchedulerService{
		validator: validate,
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
	}
}

// Generate builds the assignment model over the request catalog and runs
// the bounded search. On success the returned slots are certified conflict
// free; on budget exhaustion the INFEASIBLE error is returned and the
// caller decides whether to retry with a larger budget or relaxed scope.
func (s *SchedulerService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}

	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	cat, err := catalog.Load(req.Input)
	if err != nil {
		return nil, err
	}

	model, err := solver.Build(cat, solver.Options{
		Demand: s.demand(req.LectureSessions, req.LabSessions),
		Pins:   req.Pins,
	})
	if err != nil {
		return nil, err
	}

	budget := req.TimeBudget
	if budget <= 0 {
		budget = s.cfg.Solver.TimeBudget
	}

	log.Info("solving timetable",
		zap.Int("batches", len(cat.Batches())),
		zap.Int("variables", model.Variables()),
		zap.Int("pins", len(req.Pins)),
		zap.Duration("budget", budget),
	)

	slots, stats, err := solver.Solve(ctx, model, solver.Params{
		TimeBudget:         budget,
		GapRepairPasses:    s.cfg.Solver.GapRepairPasses,
		DeadlineCheckNodes: s.cfg.Solver.DeadlineCheckNodes,
	})
	if err != nil {
		s.observeSolve("infeasible", stats, model.Variables())
		log.Warn("no feasible assignment", zap.Error(err), zap.Int64("nodes", nodeCount(stats)))
		return nil, err
	}
	s.observeSolve("feasible", stats, model.Variables())

	log.Info("timetable solved",
		zap.Int("slots", len(slots)),
		zap.Int64("nodes", stats.Nodes),
		zap.Int("gap_moves", stats.GapMoves),
		zap.Float64("gap_penalty", stats.GapPenalty),
		zap.Duration("duration", stats.Duration),
	)

	return &dto.GenerateResult{
		RunID: runID,
		Score: math.Max(0, 100-stats.GapPenalty*s.cfg.Solver.GapWeight),
		Slots: slots,
		Stats: dto.SolveStats{
			Variables:  stats.Variables,
			Sessions:   stats.Sessions,
			Pinned:     stats.Pinned,
			Nodes:      stats.Nodes,
			GapMoves:   stats.GapMoves,
			GapPenalty: stats.GapPenalty,
			Duration:   stats.Duration,
		},
	}, nil
}

// Check reports every pairwise conflict in a slot set. Used by the admin
// conflict view and by the anomaly monitor before it flags a slot update.
func (s *SchedulerService) Check(slots []models.ScheduleSlot) []models.Violation {
	violations := conflict.Detect(slots)
	if len(violations) > 0 {
		s.metrics.ObserveViolations(conflict.CountByType(violations))
	}
	return violations
}

// Certify runs the full catalog verification on top of Check: campus-room
// consistency and grid membership.
func (s *SchedulerService) Certify(in catalog.Input, slots []models.ScheduleSlot) ([]models.Violation, error) {
	cat, err := catalog.Load(in)
	if err != nil {
		return nil, err
	}
	violations := conflict.Detect(slots)
	violations = append(violations, conflict.Verify(cat, slots)...)
	if len(violations) > 0 {
		s.metrics.ObserveViolations(conflict.CountByType(violations))
	}
	return violations, nil
}

// Repair eliminates detected conflicts. It first attempts a full re-solve
// with the clean slots pinned; when that is infeasible within budget it
// falls back to deterministic local room reassignment. Remaining violations
// are always reported, never dropped.
func (s *SchedulerService) Repair(ctx context.Context, req dto.RepairRequest) (*models.RepairResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid repair request")
	}

	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	violations := conflict.Detect(req.Slots)
	if len(violations) == 0 {
		log.Info("schedule already clean", zap.Int("slots", len(req.Slots)))
		return &models.RepairResult{Slots: req.Slots, Strategy: models.RepairNoop}, nil
	}
	s.metrics.ObserveViolations(conflict.CountByType(violations))

	cat, err := catalog.Load(req.Input)
	if err != nil {
		return nil, err
	}

	clean, conflicting := conflict.Partition(req.Slots)
	log.Info("repairing schedule",
		zap.Int("violations", len(violations)),
		zap.Int("clean", len(clean)),
		zap.Int("conflicting", len(conflicting)),
	)

	budget := req.TimeBudget
	if budget <= 0 {
		budget = s.cfg.Repair.ResolveBudget
	}

	if result, ok := s.resolve(ctx, cat, clean, budget, log); ok {
		s.metrics.ObserveRepair(string(models.RepairResolve), "resolved")
		return result, nil
	}

	result := conflict.LocalRepair(cat, req.Slots)
	outcome := "resolved"
	if len(result.Remaining) > 0 {
		outcome = "partial"
	}
	s.metrics.ObserveRepair(string(models.RepairBestEffort), outcome)
	log.Info("best-effort repair applied",
		zap.Int("reassignments", len(result.Reassignments)),
		zap.Int("remaining", len(result.Remaining)),
	)
	return &result, nil
}

// resolve is repair strategy one: rebuild the model with the clean slots
// pinned and let the solver reassign everything else.
func (s *SchedulerService) resolve(ctx context.Context, cat *catalog.Catalog, clean []models.ScheduleSlot, budget time.Duration, log *zap.Logger) (*models.RepairResult, bool) {
	model, err := solver.Build(cat, solver.Options{
		Demand: s.demand(0, 0),
		Pins:   clean,
	})
	if err != nil {
		log.Warn("re-solve model build failed, falling back to local repair", zap.Error(err))
		return nil, false
	}

	slots, stats, err := solver.Solve(ctx, model, solver.Params{
		TimeBudget:         budget,
		GapRepairPasses:    s.cfg.Solver.GapRepairPasses,
		DeadlineCheckNodes: s.cfg.Solver.DeadlineCheckNodes,
	})
	if err != nil {
		s.observeSolve("infeasible", stats, model.Variables())
		log.Warn("re-solve infeasible within budget, falling back to local repair", zap.Error(err))
		return nil, false
	}
	s.observeSolve("feasible", stats, model.Variables())

	return &models.RepairResult{
		Slots:     slots,
		Remaining: conflict.Detect(slots),
		Strategy:  models.RepairResolve,
	}, true
}

func (s *SchedulerService) demand(lecture, lab int) solver.Demand {
	if lecture <= 0 {
		lecture = s.cfg.Solver.LectureSessions
	}
	if lab <= 0 {
		lab = s.cfg.Solver.LabSessions
	}
	return solver.Demand{LectureSessions: lecture, LabSessions: lab}
}

func (s *SchedulerService) observeSolve(status string, stats *solver.Stats, variables int) {
	duration := time.Duration(0)
	if stats != nil {
		duration = stats.Duration
	}
	s.metrics.ObserveSolve(status, duration, variables)
}

func nodeCount(stats *solver.Stats) int64 {
	if stats == nil {
		return 0
	}
	return stats.Nodes
}

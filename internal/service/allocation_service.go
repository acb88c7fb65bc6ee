package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unialloc/room-alloc-api/internal/dto"
	"github.com/unialloc/room-alloc-api/internal/models"
	"github.com/unialloc/room-alloc-api/internal/schedule"
	"github.com/unialloc/room-alloc-api/pkg/config"
	appErrors "github.com/unialloc/room-alloc-api/pkg/errors"
	"github.com/unialloc/room-alloc-api/pkg/jobs"
)

type demandLister interface {
	ListUnallocated(ctx context.Context, semesterID string) ([]models.Demand, error)
}

type roomLister interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type professorLister interface {
	ListAll(ctx context.Context) ([]models.Professor, error)
}

// conflictStore is the injectable port over the allocations table. It is
// the only path through which allocation rows are written, and its
// CommitBlocks is all-or-nothing per demand.
type conflictStore interface {
	ListOccupied(ctx context.Context, semesterID string) ([]models.OccupiedSlot, error)
	ListByRoom(ctx context.Context, semesterID, roomID string) ([]models.OccupiedSlot, error)
	CommitBlocks(ctx context.Context, semesterID, demandID, roomID string, blocks []schedule.Block) error
	HistoryCounts(ctx context.Context, disciplineCodes []string, excludeSemesterID string) (map[string]map[string]int, error)
}

type runLocker interface {
	Acquire(ctx context.Context, semesterID string) (func(), error)
}

type runEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// runJobPayload travels through the job queue.
type runJobPayload struct {
	RunID      string
	SemesterID string
}

// RunJobType identifies allocation run jobs on the queue.
const RunJobType = "allocation_run"

// AllocationService orchestrates the three-phase allocation engine: hard
// rules first for the most constrained demands, weighted scoring for the
// rest, then greedy atomic commits in global best-score order.
type AllocationService struct {
	demands    demandLister
	rooms      roomLister
	professors professorLister
	store      conflictStore
	rules      *RuleService
	scoring    *ScoringService
	decisions  decisionInserter
	locker     runLocker
	metrics    *MetricsService
	queue      runEnqueuer
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        config.AllocatorConfig
	runs       *runStore
}

// NewAllocationService wires engine dependencies. decisions, locker, metrics
// and queue may be nil; the service degrades to synchronous, unlogged runs.
func NewAllocationService(
	demands demandLister,
	rooms roomLister,
	professors professorLister,
	store conflictStore,
	rules *RuleService,
	scoring *ScoringService,
	decisions decisionInserter,
	locker runLocker,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.AllocatorConfig,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 2 * time.Hour
	}
	return &AllocationService{
		demands:    demands,
		rooms:      rooms,
		professors: professors,
		store:      store,
		rules:      rules,
		scoring:    scoring,
		decisions:  decisions,
		locker:     locker,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		runs:       newRunStore(cfg.RunTTL),
	}
}

// AttachQueue binds the job queue used by Enqueue. Called after queue
// construction because the queue handler needs the service.
func (s *AllocationService) AttachQueue(queue runEnqueuer) {
	s.queue = queue
}

// Enqueue validates the request, registers a pending run and submits it to
// the worker queue.
func (s *AllocationService) Enqueue(ctx context.Context, req dto.RunRequest) (*dto.RunEnqueuedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run request")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "run queue unavailable")
	}

	runID := uuid.NewString()
	s.runs.Save(&models.RunResult{
		RunID:      runID,
		SemesterID: req.SemesterID,
		Status:     models.RunStatusPending,
		StartedAt:  time.Now().UTC(),
	})

	job := jobs.Job{ID: runID, Type: RunJobType, Payload: runJobPayload{RunID: runID, SemesterID: req.SemesterID}}
	if err := s.queue.Enqueue(job); err != nil {
		s.runs.Delete(runID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue allocation run")
	}

	return &dto.RunEnqueuedResponse{RunID: runID, SemesterID: req.SemesterID, Status: string(models.RunStatusPending)}, nil
}

// HandleJob is the queue handler for allocation runs. Store failures are
// returned so the queue's retry policy applies; re-running is safe because
// runs only touch still-unallocated demands.
func (s *AllocationService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runJobPayload)
	if !ok {
		s.logger.Error("unexpected run job payload", zap.String("job_id", job.ID))
		return nil
	}
	_, err := s.Run(ctx, payload.RunID, payload.SemesterID)
	if err != nil && appErrors.FromError(err).Code == appErrors.ErrRunInProgress.Code {
		return nil
	}
	return err
}

// GetRun returns the stored result of a run.
func (s *AllocationService) GetRun(runID string) (*models.RunResult, error) {
	result, ok := s.runs.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found or expired")
	}
	return result, nil
}

// Run executes the engine for one semester. It returns the (possibly
// partial) result together with any fatal error; per-demand problems are
// recorded as skips, never returned.
func (s *AllocationService) Run(ctx context.Context, runID, semesterID string) (*models.RunResult, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	start := time.Now()
	result := &models.RunResult{
		RunID:      runID,
		SemesterID: semesterID,
		Status:     models.RunStatusRunning,
		StartedAt:  start.UTC(),
	}
	s.runs.Save(result)

	var runErr error
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, semesterID)
		if err != nil {
			runErr = err
		} else {
			defer release()
		}
	}
	if runErr == nil {
		runErr = s.execute(ctx, result)
	}

	finished := time.Now().UTC()
	result.FinishedAt = &finished
	result.TotalAllocated = result.Phase1.Allocated + result.Phase3.Allocated
	result.TotalSkipped = len(result.Skips)
	if runErr != nil {
		result.Status = models.RunStatusFailed
		result.Error = runErr.Error()
	} else {
		result.Status = models.RunStatusCompleted
	}
	s.runs.Save(result)
	if s.metrics != nil {
		s.metrics.ObserveRun(result, time.Since(start))
	}

	s.logger.Info("allocation run finished",
		zap.String("run_id", runID),
		zap.String("semester_id", semesterID),
		zap.String("status", string(result.Status)),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("allocated", result.TotalAllocated),
		zap.Int("skipped", result.TotalSkipped),
		zap.Duration("duration", time.Since(start)))
	return result, runErr
}

// runDemand carries one demand's derived state across the three phases.
type runDemand struct {
	demand     *models.Demand
	blocks     []schedule.Block
	professor  *models.Professor
	hard       []models.Rule
	soft       []models.Rule
	allocated  bool
	resolved   bool // removed from further phases (skip or commit failure)
	candidates []Candidate
}

func (s *AllocationService) execute(ctx context.Context, result *models.RunResult) error {
	semesterID := result.SemesterID

	demands, err := s.demands.ListUnallocated(ctx, semesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load demands")
	}
	result.TotalProcessed = len(demands)
	if len(demands) == 0 {
		return nil
	}

	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	professors, err := s.professors.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professors")
	}
	resolver := NewProfessorResolver(professors)

	occupied, err := s.store.ListOccupied(ctx, semesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed allocations")
	}
	occupancy := newOccupancyIndex(occupied)

	disciplines := uniqueDisciplines(demands)
	ruleSets, err := s.rules.ForDisciplines(ctx, disciplines)
	if err != nil {
		return err
	}
	history, err := s.store.HistoryCounts(ctx, disciplines, semesterID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load allocation history")
	}

	var dlog *DecisionLog
	if s.cfg.DecisionLog {
		dlog = NewDecisionLog(result.RunID, semesterID, s.decisions, s.logger)
		defer dlog.Flush(context.WithoutCancel(ctx))
	}

	entries := make([]*runDemand, 0, len(demands))
	for i := range demands {
		demand := &demands[i]
		blocks, err := schedule.Parse(demand.ScheduleCode)
		if err != nil {
			reason := fmt.Sprintf("unparseable schedule: %v", err)
			result.Skip(1, demand.ID, reason)
			dlog.RecordSkip(demand.ID, 1, reason)
			continue
		}
		if len(blocks) == 0 {
			reason := "schedule defines no weekly meeting"
			result.Skip(1, demand.ID, reason)
			dlog.RecordSkip(demand.ID, 1, reason)
			continue
		}
		hard, soft := SplitHardSoft(ruleSets[demand.DisciplineCode])
		entries = append(entries, &runDemand{
			demand:    demand,
			blocks:    blocks,
			professor: resolver.Resolve(demand.ProfessorNames),
			hard:      hard,
			soft:      soft,
		})
		if demand.ProfessorNames != "" && entries[len(entries)-1].professor == nil {
			dlog.RecordSkip(demand.ID, 1, "professor unresolved")
		}
	}

	if err := s.runPhase1(ctx, result, entries, rooms, occupancy, dlog); err != nil {
		return err
	}
	s.runPhase2(result, entries, rooms, history, occupancy, dlog)
	return s.runPhase3(ctx, result, entries, dlog)
}

// runPhase1 allocates demands carrying hard rules, most restrictive first,
// so room-set-constrained demands claim their rooms before anything else
// can.
func (s *AllocationService) runPhase1(
	ctx context.Context,
	result *models.RunResult,
	entries []*runDemand,
	rooms []models.Room,
	occupancy *occupancyIndex,
	dlog *DecisionLog,
) error {
	type ranked struct {
		entry    *runDemand
		priority int
	}
	var queue []ranked
	for _, entry := range entries {
		if len(entry.hard) == 0 {
			continue
		}
		queue = append(queue, ranked{entry: entry, priority: s.phase1Priority(entry)})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].priority != queue[j].priority {
			return queue[i].priority > queue[j].priority
		}
		return queue[i].entry.demand.ID < queue[j].entry.demand.ID
	})

	for _, item := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := item.entry
		result.Phase1.Processed++

		var compliant []*models.Room
		for i := range rooms {
			room := &rooms[i]
			if !s.rules.HardCompliant(room, entry.hard) {
				continue
			}
			if !s.accessibleFor(entry, room) {
				continue
			}
			compliant = append(compliant, room)
		}

		if len(compliant) == 0 {
			if s.cfg.HardRuleFallback {
				dlog.RecordSkip(entry.demand.ID, 1, "no hard-compliant room, deferred to scoring")
				continue
			}
			entry.resolved = true
			reason := "no room satisfies the discipline's hard rules"
			result.Skip(1, entry.demand.ID, reason)
			dlog.RecordSkip(entry.demand.ID, 1, reason)
			continue
		}

		// rooms arrive ordered by id, keeping the fallback walk deterministic
		allocated := false
		for _, room := range compliant {
			if occupancy.anyOccupied(room.ID, entry.blocks) {
				dlog.RecordCandidate(entry.demand.ID, 1, room.ID, dto.ScoreBreakdown{}, models.DecisionRejected, "slot conflict")
				continue
			}
			err := s.store.CommitBlocks(ctx, result.SemesterID, entry.demand.ID, room.ID, entry.blocks)
			if err != nil {
				if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
					dlog.RecordCandidate(entry.demand.ID, 1, room.ID, dto.ScoreBreakdown{}, models.DecisionRejected, "slot conflict")
					continue
				}
				entry.resolved = true
				reason := fmt.Sprintf("commit failed: %v", err)
				result.Skip(1, entry.demand.ID, reason)
				dlog.RecordSkip(entry.demand.ID, 1, reason)
				allocated = true // handled; nothing further this phase
				break
			}
			occupancy.reserve(room.ID, entry.blocks)
			entry.allocated = true
			result.Phase1.Allocated++
			dlog.RecordCandidate(entry.demand.ID, 1, room.ID, dto.ScoreBreakdown{}, models.DecisionAllocated, "hard-rule allocation")
			allocated = true
			break
		}

		if !allocated {
			result.Phase1.Conflicts++
			if s.cfg.HardRuleFallback {
				dlog.RecordSkip(entry.demand.ID, 1, "no conflict-free hard-compliant room, deferred to scoring")
			} else {
				entry.resolved = true
				reason := "no conflict-free room satisfies the discipline's hard rules"
				result.Skip(1, entry.demand.ID, reason)
				dlog.RecordSkip(entry.demand.ID, 1, reason)
			}
		}
	}
	return nil
}

// phase1Priority ranks restrictiveness: room-set rules pin specific rooms
// and dominate; each hard rule narrows the field; a resolvable professor
// without mobility constraints nudges the demand ahead of peers.
func (s *AllocationService) phase1Priority(entry *runDemand) int {
	priority := 10 * len(entry.hard)
	for _, rule := range entry.hard {
		if rule.Kind == models.RuleKindRoomSet {
			priority += 50
			break
		}
	}
	if entry.professor != nil && !entry.professor.MobilityImpaired {
		priority += 5
	}
	return priority
}

func (s *AllocationService) accessibleFor(entry *runDemand, room *models.Room) bool {
	if entry.professor != nil && entry.professor.MobilityImpaired {
		return room.GroundFloor()
	}
	return true
}

// runPhase2 scores every remaining demand against every room and retains
// the full ranked candidate list for phase 3.
func (s *AllocationService) runPhase2(
	result *models.RunResult,
	entries []*runDemand,
	rooms []models.Room,
	history map[string]map[string]int,
	occupancy *occupancyIndex,
	dlog *DecisionLog,
) {
	for _, entry := range entries {
		if entry.allocated || entry.resolved {
			continue
		}
		result.Phase2.Processed++

		roomHistory := history[entry.demand.DisciplineCode]
		for i := range rooms {
			room := &rooms[i]
			if !s.accessibleFor(entry, room) {
				continue
			}
			candidate := s.scoring.Score(entry.demand, room, entry.blocks, entry.soft, entry.professor, roomHistory, occupancy)
			if candidate.HasConflicts {
				result.Phase2.Conflicts++
				dlog.RecordCandidate(entry.demand.ID, 2, room.ID, candidate.Breakdown, models.DecisionRejected, "slot conflict")
				continue
			}
			entry.candidates = append(entry.candidates, candidate)
		}

		if len(entry.candidates) == 0 {
			entry.resolved = true
			reason := "no conflict-free candidates"
			result.Skip(2, entry.demand.ID, reason)
			dlog.RecordSkip(entry.demand.ID, 2, reason)
			continue
		}

		sort.SliceStable(entry.candidates, func(i, j int) bool {
			if entry.candidates[i].Score != entry.candidates[j].Score {
				return entry.candidates[i].Score > entry.candidates[j].Score
			}
			return entry.candidates[i].Room.ID < entry.candidates[j].Room.ID
		})
	}
}

// runPhase3 commits greedily in global best-candidate order. The conflict
// check directly before each commit reads the live store, never the phase-2
// snapshot: earlier demands in this same loop may have claimed the room.
func (s *AllocationService) runPhase3(
	ctx context.Context,
	result *models.RunResult,
	entries []*runDemand,
	dlog *DecisionLog,
) error {
	var pending []*runDemand
	for _, entry := range entries {
		if entry.allocated || entry.resolved || len(entry.candidates) == 0 {
			continue
		}
		pending = append(pending, entry)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].candidates[0].Score != pending[j].candidates[0].Score {
			return pending[i].candidates[0].Score > pending[j].candidates[0].Score
		}
		return pending[i].demand.ID < pending[j].demand.ID
	})

	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Phase3.Processed++

		handled := false
		for _, candidate := range entry.candidates {
			fresh, err := s.store.ListByRoom(ctx, result.SemesterID, candidate.Room.ID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict store unavailable")
			}
			if overlaps(fresh, entry.blocks) {
				result.Phase3.Conflicts++
				dlog.RecordCandidate(entry.demand.ID, 3, candidate.Room.ID, candidate.Breakdown, models.DecisionRejected, "slot taken earlier in run")
				continue
			}

			err = s.store.CommitBlocks(ctx, result.SemesterID, entry.demand.ID, candidate.Room.ID, entry.blocks)
			if err != nil {
				if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
					result.Phase3.Conflicts++
					dlog.RecordCandidate(entry.demand.ID, 3, candidate.Room.ID, candidate.Breakdown, models.DecisionRejected, "slot conflict")
					continue
				}
				reason := fmt.Sprintf("commit failed: %v", err)
				result.Skip(3, entry.demand.ID, reason)
				dlog.RecordSkip(entry.demand.ID, 3, reason)
				handled = true
				break
			}

			entry.allocated = true
			result.Phase3.Allocated++
			dlog.RecordCandidate(entry.demand.ID, 3, candidate.Room.ID, candidate.Breakdown, models.DecisionAllocated, "best available candidate")
			handled = true
			break
		}

		if !handled {
			reason := "candidates exhausted"
			result.Skip(3, entry.demand.ID, reason)
			dlog.RecordSkip(entry.demand.ID, 3, reason)
		}
	}
	return nil
}

func uniqueDisciplines(demands []models.Demand) []string {
	seen := make(map[string]struct{}, len(demands))
	var codes []string
	for _, demand := range demands {
		if _, ok := seen[demand.DisciplineCode]; ok {
			continue
		}
		seen[demand.DisciplineCode] = struct{}{}
		codes = append(codes, demand.DisciplineCode)
	}
	return codes
}

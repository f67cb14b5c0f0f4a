package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const (
	runKeyPrefix          = "tg:run:"          // run data: tg:run:{run_id}
	runIndexKey           = "tg:runs"          // set of all known run ids
	runEventChannelPrefix = "tg:events:"       // pub/sub channel: tg:events:{run_id}
	runTTL                = 7 * 24 * time.Hour // matches the output retention window
)

// RunRepository stores generation run state in Redis.
type RunRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{client: client, now: time.Now}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.GenerationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	now := r.now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = now
	}

	runData, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run data: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.runKey(run.RunID), runData, runTTL)
	pipe.SAdd(ctx, runIndexKey, run.RunID)
	pipe.Expire(ctx, runIndexKey, runTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.GenerationRun, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run domain.GenerationRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run data: %w", err)
	}
	return &run, nil
}

// UpdateStage records the state of one stage. A queued run moves to running
// on its first stage update.
func (r *RunRepository) UpdateStage(ctx context.Context, runID, stage string, state domain.StageState) error {
	run, err := r.Get(ctx, runID)
	if err != nil {
		return err
	}
	if run.Stages == nil {
		run.Stages = map[string]domain.StageState{}
	}
	run.Stages[stage] = state
	if run.Status == domain.RunQueued {
		run.Status = domain.RunRunning
	}
	return r.save(ctx, run)
}

func (r *RunRepository) SetStatus(ctx context.Context, runID string, status domain.RunStatus, errMsg string) error {
	run, err := r.Get(ctx, runID)
	if err != nil {
		return err
	}
	run.Status = status
	run.Error = errMsg
	return r.save(ctx, run)
}

func (r *RunRepository) SetOutputDir(ctx context.Context, runID, dir string) error {
	run, err := r.Get(ctx, runID)
	if err != nil {
		return err
	}
	run.OutputDir = dir
	return r.save(ctx, run)
}

// List returns the ids of runs that have not expired, sorted.
func (r *RunRepository) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, runIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	live := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := r.client.Exists(ctx, r.runKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check run %s: %w", id, err)
		}
		if n > 0 {
			live = append(live, id)
		}
	}
	sort.Strings(live)
	return live, nil
}

func (r *RunRepository) Delete(ctx context.Context, runID string) error {
	if _, err := r.Get(ctx, runID); err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.runKey(runID))
	pipe.SRem(ctx, runIndexKey, runID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// Subscribe returns a subscription to update events of one run.
func (r *RunRepository) Subscribe(ctx context.Context, runID string) *redis.PubSub {
	return r.client.Subscribe(ctx, r.runEventChannel(runID))
}

func (r *RunRepository) save(ctx context.Context, run *domain.GenerationRun) error {
	run.UpdatedAt = r.now()
	runData, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run data: %w", err)
	}
	if err := r.client.Set(ctx, r.runKey(run.RunID), runData, runTTL).Err(); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	// Publish failures are not fatal; subscribers re-read the run on reconnect.
	r.client.Publish(ctx, r.runEventChannel(run.RunID), runData)
	return nil
}

func (r *RunRepository) runKey(runID string) string {
	return fmt.Sprintf("%s%s", runKeyPrefix, runID)
}

func (r *RunRepository) runEventChannel(runID string) string {
	return fmt.Sprintf("%s%s", runEventChannelPrefix, runID)
}

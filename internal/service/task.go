package service

import (
	"context"
	"errors"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
)

type TaskClaim struct {
	Task    domain.Task     `json:"task"`
	Reward  domain.Reward   `json:"reward"`
	Chiblet *domain.Chiblet `json:"chiblet,omitempty"`
	Wchibi  int64           `json:"wchibi"`
}

type TaskService struct {
	*Deps
}

func NewTaskService(d *Deps) *TaskService {
	return &TaskService{Deps: d}
}

// List returns every active task with the caller's status.
func (s *TaskService) List(ctx context.Context, userID int64) ([]domain.UserTask, error) {
	return s.store.Tasks.ListForUser(ctx, userID)
}

// Complete marks a task as done by the user. Completing twice is a no-op.
func (s *TaskService) Complete(ctx context.Context, userID, taskID int64) (*domain.TaskCompletion, error) {
	var out domain.TaskCompletion
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		task, err := s.store.Tasks.Get(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.IsActive {
			return game.ErrTaskInactive
		}
		// Serializes with Claim while no completion row exists to lock.
		if _, err := s.store.Users.GetByIDForUpdate(ctx, userID); err != nil {
			return err
		}

		c, err := s.store.Tasks.Completion(ctx, userID, taskID, true)
		switch {
		case err == nil:
			if c.Status == domain.TaskClaimed {
				return game.ErrTaskAlreadyClaimed
			}
			if c.Status == domain.TaskCompleted {
				out = *c
				return nil
			}
		case IsNotFound(err):
			c = &domain.TaskCompletion{UserID: userID, TaskID: taskID}
		default:
			return err
		}

		now := s.now()
		c.Status = domain.TaskCompleted
		c.CompletedAt = &now
		if err := s.store.Tasks.SaveCompletion(ctx, c); err != nil {
			return err
		}
		out = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Claim grants the reward of a completed task once.
func (s *TaskService) Claim(ctx context.Context, userID, taskID int64) (*TaskClaim, error) {
	var res TaskClaim
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		task, err := s.store.Tasks.Get(ctx, taskID)
		if err != nil {
			return err
		}
		u, err := s.store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		c, err := s.store.Tasks.Completion(ctx, userID, taskID, true)
		if errors.Is(err, game.ErrNotFound) {
			return game.ErrTaskNotCompleted
		}
		if err != nil {
			return err
		}
		switch c.Status {
		case domain.TaskClaimed:
			return game.ErrTaskAlreadyClaimed
		case domain.TaskCompleted:
		default:
			return game.ErrTaskNotCompleted
		}

		switch task.Reward.Type {
		case domain.RewardWchibi:
			meta := map[string]interface{}{"task_id": task.ID}
			if err := s.ledger.Credit(ctx, u, task.Reward.Amount, domain.TxTaskReward, meta); err != nil {
				return err
			}
			if err := s.store.Users.Update(ctx, u); err != nil {
				return err
			}
		case domain.RewardChiblet:
			ch, err := s.grantChiblet(ctx, userID, task.Reward.Rarity, s.newRand())
			if err != nil {
				return err
			}
			res.Chiblet = ch
		}

		now := s.now()
		c.Status = domain.TaskClaimed
		c.ClaimedAt = &now
		if err := s.store.Tasks.SaveCompletion(ctx, c); err != nil {
			return err
		}
		res.Task, res.Reward, res.Wchibi = *task, task.Reward, u.Wchibi
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("task reward claimed", "user_id", userID, "task_id", taskID, "reward", res.Reward.Type)
	s.events.Publish(userID, EventTaskClaimed, res)
	return &res, nil
}

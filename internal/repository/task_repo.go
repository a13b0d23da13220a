package repository

import (
	"context"
	"encoding/json"

	"chiblets_lite/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row, extra ...any) (domain.Task, error) {
	var t domain.Task
	var reward []byte
	dest := append([]any{&t.ID, &t.Title, &t.Description, &t.Type, &reward, &t.URL, &t.IsActive, &t.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return t, err
	}
	if err := json.Unmarshal(reward, &t.Reward); err != nil {
		return t, err
	}
	return t, nil
}

func (r *TaskRepository) ListActive(ctx context.Context) ([]domain.Task, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT id, title, description, type, reward, url, is_active, created_at
		 FROM tasks WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		res = append(res, t)
	}
	return res, mapErr(rows.Err())
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, title, description, type, reward, url, is_active, created_at FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	reward, err := json.Marshal(t.Reward)
	if err != nil {
		return err
	}
	return mapErr(conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO tasks (title, description, type, reward, url, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		t.Title, t.Description, t.Type, reward, t.URL, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt))
}

// ListForUser returns active tasks with the user's status, PENDING when the
// user has not touched the task.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]domain.UserTask, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT t.id, t.title, t.description, t.type, t.reward, t.url, t.is_active, t.created_at,
			COALESCE(tc.status, 'PENDING')
		 FROM tasks t
		 LEFT JOIN task_completions tc ON tc.task_id = t.id AND tc.user_id = $1
		 WHERE t.is_active
		 ORDER BY t.id`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var res []domain.UserTask
	for rows.Next() {
		var status domain.TaskStatus
		t, err := scanTask(rows, &status)
		if err != nil {
			return nil, mapErr(err)
		}
		res = append(res, domain.UserTask{Task: t, Status: status})
	}
	return res, mapErr(rows.Err())
}

func (r *TaskRepository) Completion(ctx context.Context, userID, taskID int64, forUpdate bool) (*domain.TaskCompletion, error) {
	sql := `SELECT user_id, task_id, status, completed_at, claimed_at
		FROM task_completions WHERE user_id = $1 AND task_id = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	var c domain.TaskCompletion
	err := conn(ctx, r.db).QueryRow(ctx, sql, userID, taskID).Scan(&c.UserID, &c.TaskID, &c.Status, &c.CompletedAt, &c.ClaimedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *TaskRepository) SaveCompletion(ctx context.Context, c *domain.TaskCompletion) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`INSERT INTO task_completions (user_id, task_id, status, completed_at, claimed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, task_id) DO UPDATE SET
			status = EXCLUDED.status, completed_at = EXCLUDED.completed_at, claimed_at = EXCLUDED.claimed_at
		 WHERE task_completions.status <> 'CLAIMED'`,
		c.UserID, c.TaskID, c.Status, c.CompletedAt, c.ClaimedAt)
	return mapErr(err)
}

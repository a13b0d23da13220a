package memory

import (
	"context"
	"sort"
	"time"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/repository"
)

type UserRepo struct{ store *Store }

func (r UserRepo) get(id int64) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.get(id)
}

func (r UserRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.User, error) {
	return r.get(id)
}

func (r UserRepo) GetByTgID(_ context.Context, tgID int64) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.d.users {
		if u.TgID == tgID {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r UserRepo) Create(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u.ID = r.store.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.store.d.users[u.ID] = *u
	return nil
}

func (r UserRepo) Update(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.d.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.d.users[u.ID] = *u
	return nil
}

func (r UserRepo) sorted() []domain.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	res := make([]domain.User, 0, len(r.store.d.users))
	for _, u := range r.store.d.users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Wchibi != res[j].Wchibi {
			return res[i].Wchibi > res[j].Wchibi
		}
		return res[i].ID < res[j].ID
	})
	return res
}

func (r UserRepo) Top(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var res []domain.LeaderboardEntry
	for i, u := range r.sorted() {
		if i == limit {
			break
		}
		res = append(res, domain.LeaderboardEntry{
			Rank:         i + 1,
			UserID:       u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			Wchibi:       u.Wchibi,
			Level:        u.Level,
			CurrentStage: u.CurrentStage,
			TotalWins:    u.TotalWins,
		})
	}
	return res, nil
}

func (r UserRepo) Rank(_ context.Context, userID int64) (int, int, error) {
	all := r.sorted()
	var me *domain.User
	for i := range all {
		if all[i].ID == userID {
			me = &all[i]
		}
	}
	if me == nil {
		return 0, 0, repository.ErrNotFound
	}
	rank := 1
	for _, u := range all {
		if u.Wchibi > me.Wchibi {
			rank++
		}
	}
	return rank, len(all), nil
}

type SpeciesRepo struct{ store *Store }

func (r SpeciesRepo) List(_ context.Context) ([]domain.Species, error) {
	return r.filter(func(domain.Species) bool { return true }), nil
}

func (r SpeciesRepo) ListByRarity(_ context.Context, rarity domain.Rarity) ([]domain.Species, error) {
	return r.filter(func(s domain.Species) bool { return s.Rarity == rarity }), nil
}

func (r SpeciesRepo) filter(keep func(domain.Species) bool) []domain.Species {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var res []domain.Species
	for _, s := range r.store.d.species {
		if keep(s) {
			res = append(res, s)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (r SpeciesRepo) Get(_ context.Context, id int64) (*domain.Species, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.d.species[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r SpeciesRepo) Upsert(_ context.Context, sp *domain.Species) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, s := range r.store.d.species {
		if s.Name == sp.Name {
			sp.ID = id
			r.store.d.species[id] = *sp
			return nil
		}
	}
	sp.ID = r.store.id()
	r.store.d.species[sp.ID] = *sp
	return nil
}

type ChibletRepo struct{ store *Store }

// joined fills the species columns the way the SQL join does. Caller holds mu.
func (r ChibletRepo) joined(c domain.Chiblet) domain.Chiblet {
	if sp, ok := r.store.d.species[c.SpeciesID]; ok {
		c.SpeciesName = sp.Name
		c.Rarity = sp.Rarity
	}
	return c
}

func (r ChibletRepo) filter(keep func(domain.Chiblet) bool, less func(a, b domain.Chiblet) bool) []domain.Chiblet {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var res []domain.Chiblet
	for _, c := range r.store.d.chiblets {
		if keep(c) {
			res = append(res, r.joined(c))
		}
	}
	if less == nil {
		less = func(a, b domain.Chiblet) bool { return a.ID < b.ID }
	}
	sort.Slice(res, func(i, j int) bool { return less(res[i], res[j]) })
	return res
}

func (r ChibletRepo) Get(_ context.Context, id int64) (*domain.Chiblet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.d.chiblets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = r.joined(c)
	return &c, nil
}

func (r ChibletRepo) GetForUpdate(_ context.Context, ids ...int64) ([]domain.Chiblet, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	res := r.filter(func(c domain.Chiblet) bool { return want[c.ID] }, nil)
	if len(res) != len(want) {
		return nil, repository.ErrNotFound
	}
	return res, nil
}

func (r ChibletRepo) ListByUser(_ context.Context, userID int64) ([]domain.Chiblet, error) {
	return r.filter(
		func(c domain.Chiblet) bool { return c.UserID == userID },
		func(a, b domain.Chiblet) bool {
			if a.IsActive != b.IsActive {
				return a.IsActive
			}
			if a.Level != b.Level {
				return a.Level > b.Level
			}
			return a.ID < b.ID
		},
	), nil
}

func (r ChibletRepo) ActiveTeam(_ context.Context, userID int64, _ bool) ([]domain.Chiblet, error) {
	return r.filter(func(c domain.Chiblet) bool { return c.UserID == userID && c.IsActive }, nil), nil
}

func (r ChibletRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	return len(r.filter(func(c domain.Chiblet) bool { return c.UserID == userID }, nil)), nil
}

func (r ChibletRepo) Create(_ context.Context, c *domain.Chiblet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c.ID = r.store.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.store.d.chiblets[c.ID] = *c
	*c = r.joined(*c)
	return nil
}

func (r ChibletRepo) Update(_ context.Context, c *domain.Chiblet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.d.chiblets[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.d.chiblets[c.ID] = *c
	return nil
}

func (r ChibletRepo) Delete(_ context.Context, ids ...int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.store.d.chiblets[id]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(r.store.d.chiblets, id)
	}
	return nil
}

func (r ChibletRepo) FindOpponents(_ context.Context, userID int64, minLevel, maxLevel, limit int) ([]domain.Chiblet, error) {
	res := r.filter(func(c domain.Chiblet) bool {
		return c.UserID != userID && c.Level >= minLevel && c.Level <= maxLevel && c.Energy > 0 && c.HP > 0
	}, nil)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

type TaskRepo struct{ store *Store }

func (r TaskRepo) ListActive(_ context.Context) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var res []domain.Task
	for _, t := range r.store.d.tasks {
		if t.IsActive {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r TaskRepo) Get(_ context.Context, id int64) (*domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.d.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r TaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t.ID = r.store.id()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.store.d.tasks[t.ID] = *t
	return nil
}

func (r TaskRepo) ListForUser(ctx context.Context, userID int64) ([]domain.UserTask, error) {
	tasks, _ := r.ListActive(ctx)
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	res := make([]domain.UserTask, 0, len(tasks))
	for _, t := range tasks {
		status := domain.TaskPending
		if c, ok := r.store.d.completions[completionKey{userID, t.ID}]; ok {
			status = c.Status
		}
		res = append(res, domain.UserTask{Task: t, Status: status})
	}
	return res, nil
}

func (r TaskRepo) Completion(_ context.Context, userID, taskID int64, _ bool) (*domain.TaskCompletion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.d.completions[completionKey{userID, taskID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r TaskRepo) SaveCompletion(_ context.Context, c *domain.TaskCompletion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := completionKey{c.UserID, c.TaskID}
	if cur, ok := r.store.d.completions[key]; ok && cur.Status == domain.TaskClaimed {
		return nil
	}
	r.store.d.completions[key] = *c
	return nil
}

type SpinRepo struct{ store *Store }

func (r SpinRepo) CountSince(_ context.Context, userID int64, since time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, s := range r.store.d.spins {
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r SpinRepo) Create(_ context.Context, rec *domain.SpinRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec.ID = r.store.id()
	r.store.d.spins = append(r.store.d.spins, *rec)
	return nil
}

type BattleRepo struct{ store *Store }

func (r BattleRepo) Create(_ context.Context, b *domain.BattleRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.d.battles = append(r.store.d.battles, *b)
	return nil
}

func (r BattleRepo) ListByUser(_ context.Context, userID int64, limit int) ([]domain.BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var res []domain.BattleRecord
	for i := len(r.store.d.battles) - 1; i >= 0 && len(res) < limit; i-- {
		if b := r.store.d.battles[i]; b.UserID == userID {
			res = append(res, b)
		}
	}
	return res, nil
}

type TransactionRepo struct{ store *Store }

func (r TransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t.ID = r.store.id()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.store.d.txs = append(r.store.d.txs, *t)
	return nil
}

func (r TransactionRepo) ListByUser(_ context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var res []domain.Transaction
	for i := len(r.store.d.txs) - 1; i >= 0 && len(res) < limit; i-- {
		if t := r.store.d.txs[i]; t.UserID == userID {
			res = append(res, t)
		}
	}
	return res, nil
}

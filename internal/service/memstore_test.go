package service

import (
	"context"

	"task_api/internal/domain"
	"task_api/internal/query"
	"task_api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the two Mongo collections, good
// enough to exercise validation and the integrity coordinator without a
// running database. Listing/count short-circuit; the query surface itself is
// covered by the query package tests and the integration suite.
type memStore struct {
	tasks map[primitive.ObjectID]domain.Task
	users map[primitive.ObjectID]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		tasks: make(map[primitive.ObjectID]domain.Task),
		users: make(map[primitive.ObjectID]domain.User),
	}
}

func (s *memStore) env() (*TaskService, *UserService) {
	tasks := &memTasks{s: s}
	users := &memUsers{s: s}
	co := NewCoordinator(tasks, users)
	return NewTaskService(tasks, users, co), NewUserService(tasks, users, co)
}

func (s *memStore) task(id primitive.ObjectID) domain.Task { return s.tasks[id] }
func (s *memStore) user(id primitive.ObjectID) domain.User { return s.users[id] }

type memTasks struct {
	s *memStore
}

func (m *memTasks) Find(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
	var out []bson.M
	for _, t := range m.s.tasks {
		out = append(out, bson.M{"_id": t.ID, "name": t.Name})
	}
	return out, nil
}

func (m *memTasks) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(m.s.tasks)), nil
}

func (m *memTasks) FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error) {
	t, ok := m.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return bson.M{"_id": t.ID, "name": t.Name}, nil
}

func (m *memTasks) Get(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	t, ok := m.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *memTasks) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range ids {
		if t, ok := m.s.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) Insert(ctx context.Context, t *domain.Task) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.s.tasks[t.ID] = *t
	return nil
}

func (m *memTasks) Replace(ctx context.Context, id primitive.ObjectID, t *domain.Task) error {
	if _, ok := m.s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	m.s.tasks[id] = *t
	return nil
}

func (m *memTasks) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	t, ok := m.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.s.tasks, id)
	return &t, nil
}

func (m *memTasks) FindAssigned(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range ids {
		if t, ok := m.s.tasks[id]; ok && t.AssignedUser != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) AssignMany(ctx context.Context, ids []primitive.ObjectID, userID, userName string) error {
	for _, id := range ids {
		if t, ok := m.s.tasks[id]; ok {
			t.AssignedUser = userID
			t.AssignedUserName = userName
			m.s.tasks[id] = t
		}
	}
	return nil
}

func (m *memTasks) UnassignMany(ctx context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		if t, ok := m.s.tasks[id]; ok {
			t.AssignedUser = ""
			t.AssignedUserName = domain.UnassignedName
			m.s.tasks[id] = t
		}
	}
	return nil
}

func (m *memTasks) UnassignByUser(ctx context.Context, userID string) error {
	for id, t := range m.s.tasks {
		if t.AssignedUser == userID {
			t.AssignedUser = ""
			t.AssignedUserName = domain.UnassignedName
			m.s.tasks[id] = t
		}
	}
	return nil
}

type memUsers struct {
	s *memStore
}

func (m *memUsers) Find(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
	var out []bson.M
	for _, u := range m.s.users {
		out = append(out, bson.M{"_id": u.ID, "name": u.Name})
	}
	return out, nil
}

func (m *memUsers) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(m.s.users)), nil
}

func (m *memUsers) FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return bson.M{"_id": u.ID, "name": u.Name, "pendingTasks": u.PendingTasks}, nil
}

func (m *memUsers) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Insert(ctx context.Context, u *domain.User) error {
	if _, err := m.GetByEmail(ctx, u.Email); err == nil {
		return repository.ErrDuplicateEmail
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.s.users[u.ID] = *u
	return nil
}

func (m *memUsers) Replace(ctx context.Context, id primitive.ObjectID, u *domain.User) error {
	if _, ok := m.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	m.s.users[id] = *u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.s.users, id)
	return &u, nil
}

func (m *memUsers) AddPendingTask(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	u, ok := m.s.users[oid]
	if !ok {
		return nil
	}
	for _, id := range u.PendingTasks {
		if id == taskID {
			return nil
		}
	}
	u.PendingTasks = append(u.PendingTasks, taskID)
	m.s.users[oid] = u
	return nil
}

func (m *memUsers) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	return m.RemovePendingTasks(ctx, userID, []string{taskID})
}

func (m *memUsers) RemovePendingTasks(ctx context.Context, userID string, taskIDs []string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	u, ok := m.s.users[oid]
	if !ok {
		return nil
	}
	var kept []string
	for _, id := range u.PendingTasks {
		remove := false
		for _, rm := range taskIDs {
			if id == rm {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, id)
		}
	}
	u.PendingTasks = kept
	m.s.users[oid] = u
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"task_api/internal/domain"
	"task_api/internal/query"
	"task_api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserInput is a client-supplied user payload for create and replace.
type UserInput struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PendingTasks []string `json:"pendingTasks"`
}

type UserService struct {
	tasks     TaskStore
	users     UserStore
	integrity *Coordinator
}

func NewUserService(tasks TaskStore, users UserStore, integrity *Coordinator) *UserService {
	return &UserService{tasks: tasks, users: users, integrity: integrity}
}

func (s *UserService) List(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
	return s.users.Find(ctx, plan)
}

func (s *UserService) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.users.Count(ctx, filter)
}

// Create validates required fields and email uniqueness. pendingTasks is
// normalized to a duplicate-free set; its entries are not cross-checked on
// create, only on replace.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PendingTasks: dedupe(in.PendingTasks),
		DateCreated:  time.Now().UTC(),
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	doc, err := s.users.FindByID(ctx, oid, projection)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return doc, err
}

// Replace is a full replace. Added pendingTasks entries (new set minus old)
// must reference existing, not-completed tasks; the whole replace fails if any
// does not. Email uniqueness is only checked when the email actually changes,
// so a no-op replace never conflicts with itself. dateCreated is preserved
// from the stored document.
func (s *UserService) Replace(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	// Unlike every other path, a malformed user id is its own failure here,
	// reported before the not-found check.
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	old, err := s.users.Get(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	pending := dedupe(in.PendingTasks)
	addedIDs := make([]primitive.ObjectID, 0, len(pending))
	for _, taskID := range pending {
		toid, err := primitive.ObjectIDFromHex(taskID)
		if err != nil {
			return nil, ErrInvalidTaskID
		}
		if !contains(old.PendingTasks, taskID) {
			addedIDs = append(addedIDs, toid)
		}
	}

	if len(addedIDs) > 0 {
		tasks, err := s.tasks.GetByIDs(ctx, addedIDs)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if t.Completed {
				return nil, ErrCompletedTaskRef
			}
		}
		if len(tasks) != len(addedIDs) {
			return nil, ErrTaskNotFound
		}
	}

	if email != old.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, ErrDuplicateEmail
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	u := &domain.User{
		ID:           oid,
		Name:         name,
		Email:        email,
		PendingTasks: pending,
		DateCreated:  old.DateCreated,
	}

	if err := s.users.Replace(ctx, oid, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	added := diff(pending, old.PendingTasks)
	removed := diff(old.PendingTasks, pending)
	s.integrity.UserReplaced(u, added, removed)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	old, err := s.users.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.integrity.UserDeleted(old.ID.Hex())
	return nil
}

// dedupe keeps the first occurrence of each id, never returning nil so the
// stored field is always a real array.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diff returns the entries of a that are not in b.
func diff(a, b []string) []string {
	var out []string
	for _, id := range a {
		if !contains(b, id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

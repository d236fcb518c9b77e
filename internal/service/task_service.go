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

// TaskInput is a client-supplied task payload for create and replace.
// Deadline is a pointer so a missing field can be told apart from a zero one.
type TaskInput struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Deadline         *time.Time `json:"deadline"`
	Completed        bool       `json:"completed"`
	AssignedUser     string     `json:"assignedUser"`
	AssignedUserName string     `json:"assignedUserName"`
}

type TaskService struct {
	tasks     TaskStore
	users     UserStore
	integrity *Coordinator
}

func NewTaskService(tasks TaskStore, users UserStore, integrity *Coordinator) *TaskService {
	return &TaskService{tasks: tasks, users: users, integrity: integrity}
}

func (s *TaskService) List(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
	return s.tasks.Find(ctx, plan)
}

func (s *TaskService) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.tasks.Count(ctx, filter)
}

// Create validates the payload, resolves the assignment reference and writes
// the task. The pendingTasks side of the relationship is restored afterwards
// by the coordinator; its outcome never fails the create.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	t, err := s.buildTask(ctx, in, true)
	if err != nil {
		return nil, err
	}
	t.DateCreated = time.Now().UTC()

	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.integrity.TaskCreated(t)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	doc, err := s.tasks.FindByID(ctx, oid, projection)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return doc, err
}

// Replace is a full replace: optional fields not present in the payload reset
// to their defaults. Required fields are checked before the id resolves, so a
// bad payload is a 400 even when the task does not exist. The before-state is
// read first so the coordinator can compare old and new assignment and
// completion.
func (s *TaskService) Replace(ctx context.Context, id string, in TaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Deadline == nil {
		return nil, ErrDeadlineRequired
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	old, err := s.tasks.Get(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	t, err := s.buildTask(ctx, in, false)
	if err != nil {
		return nil, err
	}
	t.ID = oid
	t.DateCreated = old.DateCreated

	if err := s.tasks.Replace(ctx, oid, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.integrity.TaskReplaced(old.AssignedUser, old.Completed, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrTaskNotFound
	}

	old, err := s.tasks.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return err
	}

	s.integrity.TaskDeleted(old)
	return nil
}

// buildTask applies required-field validation, defaults and the assignment
// reference checks shared by create and replace. On create a client-supplied
// assignedUserName is checked against the user as a stale-state guard; replace
// always takes the user's current name.
func (s *TaskService) buildTask(ctx context.Context, in TaskInput, create bool) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.Deadline == nil {
		return nil, ErrDeadlineRequired
	}

	t := &domain.Task{
		Name:             name,
		Description:      in.Description,
		Deadline:         *in.Deadline,
		Completed:        in.Completed,
		AssignedUser:     "",
		AssignedUserName: domain.UnassignedName,
	}

	if in.AssignedUser != "" {
		uid, err := primitive.ObjectIDFromHex(in.AssignedUser)
		if err != nil {
			return nil, ErrAssignedUserNotFound
		}
		u, err := s.users.Get(ctx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignedUserNotFound
		}
		if err != nil {
			return nil, err
		}
		if create && in.AssignedUserName != "" && in.AssignedUserName != u.Name {
			return nil, ErrUserNameMismatch
		}
		t.AssignedUser = in.AssignedUser
		t.AssignedUserName = u.Name
	}

	return t, nil
}

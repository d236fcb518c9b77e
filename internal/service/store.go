package service

import (
	"context"

	"task_api/internal/domain"
	"task_api/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is the task-collection surface the services and the integrity
// coordinator consume. Implemented by repository.TaskRepository.
type TaskStore interface {
	Find(ctx context.Context, plan *query.Plan) ([]bson.M, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error)
	Insert(ctx context.Context, t *domain.Task) error
	Replace(ctx context.Context, id primitive.ObjectID, t *domain.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)
	FindAssigned(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error)
	AssignMany(ctx context.Context, ids []primitive.ObjectID, userID, userName string) error
	UnassignMany(ctx context.Context, ids []primitive.ObjectID) error
	UnassignByUser(ctx context.Context, userID string) error
}

// UserStore is the user-collection surface. Implemented by
// repository.UserRepository.
type UserStore interface {
	Find(ctx context.Context, plan *query.Plan) ([]bson.M, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	Replace(ctx context.Context, id primitive.ObjectID, u *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddPendingTask(ctx context.Context, userID, taskID string) error
	RemovePendingTask(ctx context.Context, userID, taskID string) error
	RemovePendingTasks(ctx context.Context, userID string, taskIDs []string) error
}

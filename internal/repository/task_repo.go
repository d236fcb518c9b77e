package repository

import (
	"context"
	"errors"

	"task_api/internal/domain"
	"task_api/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when an id resolves to no document.
var ErrNotFound = errors.New("document not found")

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection("tasks")}
}

// Find runs a validated query plan and returns the raw documents, so field
// projections survive all the way to the response.
func (r *TaskRepository) Find(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
	opts := options.Find()
	if len(plan.Sort) > 0 {
		opts.SetSort(plan.Sort)
	}
	if plan.Projection != nil {
		opts.SetProjection(plan.Projection)
	}
	if plan.Skip > 0 {
		opts.SetSkip(plan.Skip)
	}
	if plan.Limit != query.NoLimit {
		opts.SetLimit(plan.Limit)
	}

	cursor, err := r.col.Find(ctx, plan.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *TaskRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}

func (r *TaskRepository) FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc bson.M
	err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the typed document for internal reads (before-state snapshots).
func (r *TaskRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	var t domain.Task
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error) {
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) error {
	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepository) Replace(ctx context.Context, id primitive.ObjectID, t *domain.Task) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the task and returns its final state for cascade handling.
func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	var t domain.Task
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindAssigned returns the subset of ids whose task currently has a
// non-empty assignedUser.
func (r *TaskRepository) FindAssigned(ctx context.Context, ids []primitive.ObjectID) ([]domain.Task, error) {
	cursor, err := r.col.Find(ctx, bson.M{
		"_id":          bson.M{"$in": ids},
		"assignedUser": bson.M{"$ne": ""},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AssignMany points every task in ids at the given user.
func (r *TaskRepository) AssignMany(ctx context.Context, ids []primitive.ObjectID, userID, userName string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"assignedUser": userID, "assignedUserName": userName}},
	)
	return err
}

// UnassignMany clears the assignment on every task in ids.
func (r *TaskRepository) UnassignMany(ctx context.Context, ids []primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"assignedUser": "", "assignedUserName": domain.UnassignedName}},
	)
	return err
}

// UnassignByUser clears the assignment on every task pointing at userID.
func (r *TaskRepository) UnassignByUser(ctx context.Context, userID string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"assignedUser": userID},
		bson.M{"$set": bson.M{"assignedUser": "", "assignedUserName": domain.UnassignedName}},
	)
	return err
}

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

// ErrDuplicateEmail is returned when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("email already in use")

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. The service layer pre-checks
// uniqueness as well; the index backstops concurrent creates.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) Find(ctx context.Context, plan *query.Plan) ([]bson.M, error) {
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

func (r *UserRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID, projection bson.M) (bson.M, error) {
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

func (r *UserRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) Replace(ctx context.Context, id primitive.ObjectID, u *domain.User) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user and returns its final state for cascade handling.
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AddPendingTask adds taskID to the user's pendingTasks set. $addToSet keeps
// the operation idempotent.
func (r *UserRepository) AddPendingTask(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$addToSet": bson.M{"pendingTasks": taskID}})
	return err
}

func (r *UserRepository) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$pull": bson.M{"pendingTasks": taskID}})
	return err
}

func (r *UserRepository) RemovePendingTasks(ctx context.Context, userID string, taskIDs []string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$pullAll": bson.M{"pendingTasks": taskIDs}})
	return err
}

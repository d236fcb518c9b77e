package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User tracks the set of not-yet-completed tasks assigned to it in
// pendingTasks. Entries are task ids in hex form, the same representation
// Task.AssignedUser uses on the other side of the relationship.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PendingTasks []string           `bson:"pendingTasks" json:"pendingTasks"`
	DateCreated  time.Time          `bson:"dateCreated" json:"dateCreated"`
}

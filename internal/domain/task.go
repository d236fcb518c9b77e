package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnassignedName is the assignedUserName placeholder for tasks without a user.
const UnassignedName = "unassigned"

type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	Deadline         time.Time          `bson:"deadline" json:"deadline"`
	Completed        bool               `bson:"completed" json:"completed"`
	AssignedUser     string             `bson:"assignedUser" json:"assignedUser"`
	AssignedUserName string             `bson:"assignedUserName" json:"assignedUserName"`
	DateCreated      time.Time          `bson:"dateCreated" json:"dateCreated"`
}

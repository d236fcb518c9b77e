package service

import (
	"context"
	"log/slog"
	"time"

	"task_api/internal/domain"
	"task_api/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const integrityTimeout = 5 * time.Second

// Coordinator restores the bidirectional Task.assignedUser /
// User.pendingTasks invariant after a primary write commits. Secondary writes
// are best-effort: the store offers no cross-document transaction, so their
// failure is logged and discarded rather than surfaced to the caller. Each
// invocation is a one-shot sequence of idempotent set-membership updates; all
// before-state is read during the triggering request and passed in.
type Coordinator struct {
	tasks TaskStore
	users UserStore
	log   *slog.Logger
}

func NewCoordinator(tasks TaskStore, users UserStore) *Coordinator {
	return &Coordinator{tasks: tasks, users: users, log: logger.With("component", "integrity")}
}

// TaskCreated links a freshly created task into its user's pendingTasks.
// Completed tasks are never pending, even when assigned.
func (c *Coordinator) TaskCreated(t *domain.Task) {
	if t.AssignedUser == "" || t.Completed {
		return
	}
	ctx, cancel := c.newContext()
	defer cancel()

	if err := c.users.AddPendingTask(ctx, t.AssignedUser, t.ID.Hex()); err != nil {
		c.log.Warn("add pending task failed", "task", t.ID.Hex(), "user", t.AssignedUser, "error", err)
	}
}

// TaskReplaced reconciles pendingTasks after a full task replace, comparing
// the before-state against the new document. Reassignment and
// completion-toggle are evaluated independently: the toggle rule only applies
// when the assignment did not change.
func (c *Coordinator) TaskReplaced(oldAssignedUser string, oldCompleted bool, t *domain.Task) {
	ctx, cancel := c.newContext()
	defer cancel()

	taskID := t.ID.Hex()

	// Old user loses the task when the assignment moved away, unless the old
	// task was already completed and therefore never pending.
	if oldAssignedUser != "" && oldAssignedUser != t.AssignedUser && !oldCompleted {
		if err := c.users.RemovePendingTask(ctx, oldAssignedUser, taskID); err != nil {
			c.log.Warn("remove pending task failed", "task", taskID, "user", oldAssignedUser, "error", err)
		}
	}

	// New user gains the task when the assignment moved in and the task is
	// still open.
	if t.AssignedUser != "" && t.AssignedUser != oldAssignedUser && !t.Completed {
		if err := c.users.AddPendingTask(ctx, t.AssignedUser, taskID); err != nil {
			c.log.Warn("add pending task failed", "task", taskID, "user", t.AssignedUser, "error", err)
		}
	}

	// Same user, completion toggled: pending membership follows the toggle.
	if t.AssignedUser != "" && t.AssignedUser == oldAssignedUser && oldCompleted != t.Completed {
		var err error
		if t.Completed {
			err = c.users.RemovePendingTask(ctx, t.AssignedUser, taskID)
		} else {
			err = c.users.AddPendingTask(ctx, t.AssignedUser, taskID)
		}
		if err != nil {
			c.log.Warn("toggle pending task failed", "task", taskID, "user", t.AssignedUser, "error", err)
		}
	}
}

// TaskDeleted removes a deleted task from its user's pendingTasks. The pull
// runs regardless of completed state; it is a no-op when absent.
func (c *Coordinator) TaskDeleted(t *domain.Task) {
	if t.AssignedUser == "" {
		return
	}
	ctx, cancel := c.newContext()
	defer cancel()

	if err := c.users.RemovePendingTask(ctx, t.AssignedUser, t.ID.Hex()); err != nil {
		c.log.Warn("remove pending task failed", "task", t.ID.Hex(), "user", t.AssignedUser, "error", err)
	}
}

// UserReplaced reconciles task assignments after a user replace. Removed
// entries are unassigned; added entries are stolen from any other owner and
// then assigned to u. The steal step must finish its reads before the final
// assignment write, which changes assignedUser and would make the
// currently-owned query stale.
func (c *Coordinator) UserReplaced(u *domain.User, added, removed []string) {
	ctx, cancel := c.newContext()
	defer cancel()

	if ids := toObjectIDs(removed); len(ids) > 0 {
		if err := c.tasks.UnassignMany(ctx, ids); err != nil {
			c.log.Warn("unassign removed tasks failed", "user", u.ID.Hex(), "error", err)
		}
	}

	addedIDs := toObjectIDs(added)
	if len(addedIDs) == 0 {
		return
	}

	userID := u.ID.Hex()

	owned, err := c.tasks.FindAssigned(ctx, addedIDs)
	if err != nil {
		c.log.Warn("lookup of current owners failed", "user", userID, "error", err)
	} else {
		// A task must not sit in two pending sets at once: pull each stolen
		// task out of its current owner's set, grouped per owner.
		byOwner := make(map[string][]string)
		for _, t := range owned {
			if t.AssignedUser != userID {
				byOwner[t.AssignedUser] = append(byOwner[t.AssignedUser], t.ID.Hex())
			}
		}
		for owner, taskIDs := range byOwner {
			if err := c.users.RemovePendingTasks(ctx, owner, taskIDs); err != nil {
				c.log.Warn("steal from previous owner failed", "owner", owner, "error", err)
			}
		}
	}

	if err := c.tasks.AssignMany(ctx, addedIDs, userID, u.Name); err != nil {
		c.log.Warn("assign added tasks failed", "user", userID, "error", err)
	}
}

// UserDeleted unassigns every task that pointed at the deleted user,
// completed or not.
func (c *Coordinator) UserDeleted(userID string) {
	ctx, cancel := c.newContext()
	defer cancel()

	if err := c.tasks.UnassignByUser(ctx, userID); err != nil {
		c.log.Warn("unassign tasks of deleted user failed", "user", userID, "error", err)
	}
}

// newContext detaches secondary writes from the request context: the primary
// response must not depend on them, and a client disconnect must not cancel
// the reconciliation midway.
func (c *Coordinator) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), integrityTimeout)
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

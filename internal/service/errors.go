package service

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")

	ErrNameRequired     = errors.New("name is required")
	ErrDeadlineRequired = errors.New("deadline is required")
	ErrEmailRequired    = errors.New("email is required")

	// ErrAssignedUserNotFound means a task's assignedUser id does not resolve.
	ErrAssignedUserNotFound = errors.New("assigned user not found")

	// ErrUserNameMismatch means a client-supplied assignedUserName disagrees
	// with the referenced user's current name.
	ErrUserNameMismatch = errors.New("assigned user name does not match")

	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidUserID means the user id in the URL is not id-shaped. Only the
	// user replace path reports this as its own failure; everywhere else a
	// malformed id is treated as not found.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidTaskID means a pendingTasks entry is not id-shaped.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrCompletedTaskRef means a completed task was added to pendingTasks.
	ErrCompletedTaskRef = errors.New("completed task cannot be pending")
)

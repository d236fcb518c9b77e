package handlers

import (
	"errors"
	"net/http"

	"task_api/internal/query"
	"task_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// defaultTaskLimit caps task listings when the client sends no limit. User
// listings have no default cap; task collections are expected to be large.
const defaultTaskLimit = 100

func (h *Handler) ListTasks(c *gin.Context) {
	plan, err := query.Parse(queryParams(c), defaultTaskLimit)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	ctx := c.Request.Context()

	if plan.CountOnly {
		n, err := h.Tasks.Count(ctx, plan.Filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Server error occurred while counting tasks.")
			return
		}
		respond(c, http.StatusOK, n)
		return
	}

	docs, err := h.Tasks.List(ctx, plan)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error occurred while retrieving tasks.")
		return
	}
	if docs == nil {
		docs = []bson.M{}
	}
	respond(c, http.StatusOK, docs)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	t, err := h.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.taskError(c, err, "Server error occurred while creating task.")
		return
	}
	respond(c, http.StatusCreated, t)
}

func (h *Handler) GetTask(c *gin.Context) {
	var projection bson.M
	if sel := c.Query("select"); sel != "" {
		var err error
		projection, err = query.ParseProjection(sel)
		if err != nil {
			respondQueryError(c, err)
			return
		}
	}

	doc, err := h.Tasks.Get(c.Request.Context(), c.Param("id"), projection)
	if err != nil {
		h.taskError(c, err, "Server error occurred while retrieving task.")
		return
	}
	respond(c, http.StatusOK, doc)
}

func (h *Handler) ReplaceTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	t, err := h.Tasks.Replace(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.taskError(c, err, "Server error occurred while updating task.")
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.taskError(c, err, "Server error occurred while deleting task.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) taskError(c *gin.Context, err error, serverMessage string) {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		respondError(c, http.StatusBadRequest, "Task name is required.")
	case errors.Is(err, service.ErrDeadlineRequired):
		respondError(c, http.StatusBadRequest, "Task deadline is required.")
	case errors.Is(err, service.ErrAssignedUserNotFound):
		respondError(c, http.StatusBadRequest, "User not found.")
	case errors.Is(err, service.ErrUserNameMismatch):
		respondError(c, http.StatusBadRequest, "Assigned user name does not match the user's name.")
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "Task not found.")
	default:
		respondError(c, http.StatusInternalServerError, serverMessage)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"task_api/internal/query"
	"task_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *Handler) ListUsers(c *gin.Context) {
	plan, err := query.Parse(queryParams(c), query.NoLimit)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	ctx := c.Request.Context()

	if plan.CountOnly {
		n, err := h.Users.Count(ctx, plan.Filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Server error occurred while counting users.")
			return
		}
		respond(c, http.StatusOK, n)
		return
	}

	docs, err := h.Users.List(ctx, plan)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error occurred while retrieving users.")
		return
	}
	if docs == nil {
		docs = []bson.M{}
	}
	respond(c, http.StatusOK, docs)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	u, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		h.userError(c, err, "Server error occurred while creating user.")
		return
	}
	respond(c, http.StatusCreated, u)
}

func (h *Handler) GetUser(c *gin.Context) {
	var projection bson.M
	if sel := c.Query("select"); sel != "" {
		var err error
		projection, err = query.ParseProjection(sel)
		if err != nil {
			respondQueryError(c, err)
			return
		}
	}

	doc, err := h.Users.Get(c.Request.Context(), c.Param("id"), projection)
	if err != nil {
		h.userError(c, err, "Server error occurred while retrieving user.")
		return
	}
	respond(c, http.StatusOK, doc)
}

func (h *Handler) ReplaceUser(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	u, err := h.Users.Replace(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.userError(c, err, "Server error occurred while updating user.")
		return
	}
	respond(c, http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.userError(c, err, "Server error occurred while deleting user.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userError(c *gin.Context, err error, serverMessage string) {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		respondError(c, http.StatusBadRequest, "User name is required.")
	case errors.Is(err, service.ErrEmailRequired):
		respondError(c, http.StatusBadRequest, "User email is required.")
	case errors.Is(err, service.ErrInvalidUserID):
		respondError(c, http.StatusBadRequest, "Invalid user ID format.")
	case errors.Is(err, service.ErrInvalidTaskID):
		respondError(c, http.StatusBadRequest, "Invalid task ID format.")
	case errors.Is(err, service.ErrCompletedTaskRef):
		respondError(c, http.StatusBadRequest, "Cannot add completed tasks to pendingTasks. Only non-completed tasks can be added.")
	case errors.Is(err, service.ErrDuplicateEmail):
		respondError(c, http.StatusBadRequest, "A user with this email already exists.")
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "One or more tasks not found.")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found.")
	default:
		respondError(c, http.StatusInternalServerError, serverMessage)
	}
}

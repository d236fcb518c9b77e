package handlers

import (
	"errors"
	"net/http"

	"task_api/internal/query"
	"task_api/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
	Users *service.UserService
}

func NewHandler(tasks *service.TaskService, users *service.UserService) *Handler {
	return &Handler{Tasks: tasks, Users: users}
}

// respond wraps data in the {message, data} envelope every endpoint uses.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"message": "OK", "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "data": gin.H{}})
}

func queryParams(c *gin.Context) query.Params {
	return query.Params{
		Where:  c.Query("where"),
		Sort:   c.Query("sort"),
		Select: c.Query("select"),
		Skip:   c.Query("skip"),
		Limit:  c.Query("limit"),
		Count:  c.Query("count"),
	}
}

// respondQueryError maps translator failures onto the 400 messages callers
// depend on, naming the offending directive.
func respondQueryError(c *gin.Context, err error) {
	var dir *query.DirectiveError
	if errors.As(err, &dir) {
		respondError(c, http.StatusBadRequest,
			"Invalid '"+dir.Directive+"' parameter. Must be valid JSON.")
		return
	}
	var pag *query.PaginationError
	if errors.As(err, &pag) {
		respondError(c, http.StatusBadRequest,
			"Invalid '"+pag.Directive+"' parameter. Must be a non-negative integer.")
		return
	}
	respondError(c, http.StatusBadRequest, "Invalid query parameters.")
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"task_api/internal/domain"
	"task_api/internal/repository"
	"task_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// creatableUsers accepts inserts so the create path can run end to end.
type creatableUsers struct {
	fakeUsers
	inserted *domain.User
}

func (f *creatableUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (f *creatableUsers) Insert(ctx context.Context, u *domain.User) error {
	u.ID = primitive.NewObjectID()
	f.inserted = u
	return nil
}

func userRouter(users *creatableUsers) *gin.Engine {
	tasks := &fakeTasks{}
	co := service.NewCoordinator(tasks, users)
	h := NewHandler(
		service.NewTaskService(tasks, users, co),
		service.NewUserService(tasks, users, co),
	)

	r := gin.New()
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.ReplaceUser)
	r.GET("/users", h.ListUsers)
	return r
}

func TestCreateUserCreated(t *testing.T) {
	users := &creatableUsers{}
	r := userRouter(users)

	w, env := do(t, r, http.MethodPost, "/users", `{"name":"Ann","email":"a@x.com"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		t.Fatalf("data is not a document: %v", err)
	}
	if doc["name"] != "Ann" || doc["email"] != "a@x.com" {
		t.Fatalf("unexpected document: %v", doc)
	}
	if pending, ok := doc["pendingTasks"].([]any); !ok || len(pending) != 0 {
		t.Fatalf("pendingTasks must serialize as an empty array, got %v", doc["pendingTasks"])
	}
	if users.inserted == nil {
		t.Fatal("expected an insert")
	}
}

func TestCreateUserRequiredFieldMessages(t *testing.T) {
	r := userRouter(&creatableUsers{})

	w, env := do(t, r, http.MethodPost, "/users", `{"email":"a@x.com"}`)
	if w.Code != http.StatusBadRequest || env.Message != "User name is required." {
		t.Fatalf("got %d %q", w.Code, env.Message)
	}

	w, env = do(t, r, http.MethodPost, "/users", `{"name":"Ann"}`)
	if w.Code != http.StatusBadRequest || env.Message != "User email is required." {
		t.Fatalf("got %d %q", w.Code, env.Message)
	}
}

func TestGetUserMalformedID(t *testing.T) {
	r := userRouter(&creatableUsers{})

	w, env := do(t, r, http.MethodGet, "/users/zzz", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if env.Message != "User not found." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestReplaceUserMalformedIDMessage(t *testing.T) {
	r := userRouter(&creatableUsers{})

	w, env := do(t, r, http.MethodPut, "/users/zzz", `{"name":"Ann","email":"a@x.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Message != "Invalid user ID format." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestListUsersMalformedSelect(t *testing.T) {
	r := userRouter(&creatableUsers{})

	w, env := do(t, r, http.MethodGet, "/users?select=name", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Message != "Invalid 'select' parameter. Must be valid JSON." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockUserService implements service.UserService with function fields
type MockUserService struct {
	RegisterFunc        func(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	HasRoleFunc         func(ctx context.Context, email string, role domain.Role) (bool, error)
	ListFunc            func(ctx context.Context) ([]*domain.User, error)
	ListInstructorsFunc func(ctx context.Context) ([]*domain.User, error)
	PromoteRoleFunc     func(ctx context.Context, id string, role domain.Role) error
}

func (m *MockUserService) Register(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error) {
	return m.RegisterFunc(ctx, email, name, photo, role)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	return m.HasRoleFunc(ctx, email, role)
}

func (m *MockUserService) List(ctx context.Context) ([]*domain.User, error) {
	return m.ListFunc(ctx)
}

func (m *MockUserService) ListInstructors(ctx context.Context) ([]*domain.User, error) {
	return m.ListInstructorsFunc(ctx)
}

func (m *MockUserService) PromoteRole(ctx context.Context, id string, role domain.Role) error {
	return m.PromoteRoleFunc(ctx, id, role)
}

func setupUserRouter(svc *MockUserService, authedEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc)

	router := gin.New()
	router.POST("/users", h.CreateUser)
	router.GET("/users", h.ListUsers)
	router.GET("/instructors", h.ListInstructors)
	router.PATCH("/users/:id", h.UpdateRole)
	router.GET("/users/student/:email", asUser(authedEmail), h.ProbeStudent)
	router.GET("/users/instructor/:email", asUser(authedEmail), h.ProbeInstructor)
	router.GET("/users/admin/:email", asUser(authedEmail), h.ProbeAdmin)
	return router
}

func TestCreateUser_New(t *testing.T) {
	svc := &MockUserService{
		RegisterFunc: func(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
	}
	router := setupUserRouter(svc, "")

	body, _ := json.Marshal(dto.CreateUserRequest{Email: "new@example.com", Name: "New User"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CreateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Acknowledged)
	assert.Equal(t, "user-1", resp.InsertedID)
}

func TestCreateUser_AlreadyExists(t *testing.T) {
	svc := &MockUserService{
		RegisterFunc: func(ctx context.Context, email, name, photo string, role domain.Role) (*domain.User, error) {
			return nil, nil
		},
	}
	router := setupUserRouter(svc, "")

	body, _ := json.Marshal(dto.CreateUserRequest{Email: "known@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CreateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Acknowledged)
	assert.Equal(t, "user already exists", resp.Message)
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	router := setupUserRouter(&MockUserService{}, "")

	body := []byte(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProbeRole_Self(t *testing.T) {
	svc := &MockUserService{
		HasRoleFunc: func(ctx context.Context, email string, role domain.Role) (bool, error) {
			return role == domain.RoleInstructor, nil
		},
	}
	router := setupUserRouter(svc, "instructor@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/instructor/instructor@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"instructor":true}`, w.Body.String())
}

func TestProbeRole_OtherEmailAnswersFalse(t *testing.T) {
	svc := &MockUserService{
		HasRoleFunc: func(ctx context.Context, email string, role domain.Role) (bool, error) {
			t.Fatal("must not probe someone else's role")
			return false, nil
		},
	}
	router := setupUserRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/admin/other@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())
}

func TestProbeRole_NotHeld(t *testing.T) {
	svc := &MockUserService{
		HasRoleFunc: func(ctx context.Context, email string, role domain.Role) (bool, error) {
			return false, nil
		},
	}
	router := setupUserRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/student/student@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"student":false}`, w.Body.String())
}

func TestUpdateRole(t *testing.T) {
	var gotID string
	var gotRole domain.Role
	svc := &MockUserService{
		PromoteRoleFunc: func(ctx context.Context, id string, role domain.Role) error {
			gotID = id
			gotRole = role
			return nil
		},
	}
	router := setupUserRouter(svc, "")

	body, _ := json.Marshal(dto.UpdateRoleRequest{Role: "instructor"})
	req := httptest.NewRequest(http.MethodPatch, "/users/user-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotID)
	assert.Equal(t, domain.RoleInstructor, gotRole)
}

func TestUpdateRole_UnknownUser(t *testing.T) {
	svc := &MockUserService{
		PromoteRoleFunc: func(ctx context.Context, id string, role domain.Role) error {
			return domain.ErrUserNotFound
		},
	}
	router := setupUserRouter(svc, "")

	body, _ := json.Marshal(dto.UpdateRoleRequest{Role: "admin"})
	req := httptest.NewRequest(http.MethodPatch, "/users/ghost", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInstructors(t *testing.T) {
	svc := &MockUserService{
		ListInstructorsFunc: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "user-1", Email: "instructor@example.com", Role: domain.RoleInstructor},
			}, nil
		},
	}
	router := setupUserRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/instructors", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "instructor@example.com")
}

func TestListUsers_EmptyIsList(t *testing.T) {
	svc := &MockUserService{
		ListFunc: func(ctx context.Context) ([]*domain.User, error) {
			return nil, nil
		},
	}
	router := setupUserRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

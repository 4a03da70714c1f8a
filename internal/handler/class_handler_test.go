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

// MockClassService implements service.ClassService with function fields
type MockClassService struct {
	CreateClassFunc      func(ctx context.Context, class *domain.Class) (*domain.Class, error)
	ListApprovedFunc     func(ctx context.Context) ([]*domain.Class, error)
	ListPopularFunc      func(ctx context.Context) ([]*domain.Class, error)
	ListAllFunc          func(ctx context.Context) ([]*domain.Class, error)
	ListByInstructorFunc func(ctx context.Context, email string) ([]*domain.Class, error)
	SetStatusFunc        func(ctx context.Context, id string, status domain.ClassStatus) error
	SetFeedbackFunc      func(ctx context.Context, id, feedback string) error
	SelectClassFunc      func(ctx context.Context, selection *domain.SelectedClass) (*domain.SelectedClass, error)
	GetSelectionFunc     func(ctx context.Context, id string) (*domain.SelectedClass, error)
	ListSelectionsFunc   func(ctx context.Context, email string) ([]*domain.SelectedClass, error)
	RemoveSelectionFunc  func(ctx context.Context, id string) error
}

func (m *MockClassService) CreateClass(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	return m.CreateClassFunc(ctx, class)
}

func (m *MockClassService) ListApproved(ctx context.Context) ([]*domain.Class, error) {
	return m.ListApprovedFunc(ctx)
}

func (m *MockClassService) ListPopular(ctx context.Context) ([]*domain.Class, error) {
	return m.ListPopularFunc(ctx)
}

func (m *MockClassService) ListAll(ctx context.Context) ([]*domain.Class, error) {
	return m.ListAllFunc(ctx)
}

func (m *MockClassService) ListByInstructor(ctx context.Context, email string) ([]*domain.Class, error) {
	return m.ListByInstructorFunc(ctx, email)
}

func (m *MockClassService) SetStatus(ctx context.Context, id string, status domain.ClassStatus) error {
	return m.SetStatusFunc(ctx, id, status)
}

func (m *MockClassService) SetFeedback(ctx context.Context, id, feedback string) error {
	return m.SetFeedbackFunc(ctx, id, feedback)
}

func (m *MockClassService) SelectClass(ctx context.Context, selection *domain.SelectedClass) (*domain.SelectedClass, error) {
	return m.SelectClassFunc(ctx, selection)
}

func (m *MockClassService) GetSelection(ctx context.Context, id string) (*domain.SelectedClass, error) {
	return m.GetSelectionFunc(ctx, id)
}

func (m *MockClassService) ListSelections(ctx context.Context, email string) ([]*domain.SelectedClass, error) {
	return m.ListSelectionsFunc(ctx, email)
}

func (m *MockClassService) RemoveSelection(ctx context.Context, id string) error {
	return m.RemoveSelectionFunc(ctx, id)
}

func setupClassRouter(svc *MockClassService, authedEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewClassHandler(svc)

	router := gin.New()
	router.GET("/classes", h.ListApproved)
	router.GET("/popular-classes", h.ListPopular)
	router.GET("/all-classes", h.ListAll)
	router.POST("/classes", h.CreateClass)
	router.GET("/my-classes", asUser(authedEmail), h.ListMine)
	router.PATCH("/all-classes/:id", h.UpdateStatus)
	router.PATCH("/feedback/:id", h.UpdateFeedback)
	router.POST("/selected-classes", h.SelectClass)
	router.GET("/selected-classes", asUser(authedEmail), h.ListSelections)
	router.GET("/selected-classes/:id", asUser(authedEmail), h.GetSelection)
	router.DELETE("/selected-classes/:id", h.RemoveSelection)
	return router
}

func TestListApprovedClasses(t *testing.T) {
	svc := &MockClassService{
		ListApprovedFunc: func(ctx context.Context) ([]*domain.Class, error) {
			return []*domain.Class{
				{ID: "class-1", Name: "Piano Basics", Status: domain.ClassStatusApproved},
			}, nil
		},
	}
	router := setupClassRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/classes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Piano Basics")
}

func TestListPopularClasses(t *testing.T) {
	svc := &MockClassService{
		ListPopularFunc: func(ctx context.Context) ([]*domain.Class, error) {
			return []*domain.Class{
				{ID: "class-1", Name: "Guitar", TotalEnrolled: 40},
				{ID: "class-2", Name: "Violin", TotalEnrolled: 12},
			}, nil
		},
	}
	router := setupClassRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/popular-classes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var classes []*domain.Class
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &classes))
	require.Len(t, classes, 2)
	assert.Equal(t, "Guitar", classes[0].Name)
}

func TestCreateClass_ForcesPending(t *testing.T) {
	svc := &MockClassService{
		CreateClassFunc: func(ctx context.Context, class *domain.Class) (*domain.Class, error) {
			class.ID = "class-1"
			class.Status = domain.ClassStatusPending
			return class, nil
		},
	}
	router := setupClassRouter(svc, "")

	body, _ := json.Marshal(dto.CreateClassRequest{
		Name:            "Drum Circle",
		InstructorEmail: "instructor@example.com",
		AvailableSeats:  20,
		Price:           35,
	})
	req := httptest.NewRequest(http.MethodPost, "/classes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Acknowledged)
	assert.Equal(t, "class-1", resp.InsertedID)
}

func TestCreateClass_MissingFields(t *testing.T) {
	router := setupClassRouter(&MockClassService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/classes", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMine_OwnershipEnforced(t *testing.T) {
	svc := &MockClassService{
		ListByInstructorFunc: func(ctx context.Context, email string) ([]*domain.Class, error) {
			t.Fatal("must not list another instructor's classes")
			return nil, nil
		},
	}
	router := setupClassRouter(svc, "instructor@example.com")

	req := httptest.NewRequest(http.MethodGet, "/my-classes?email=other@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	var gotStatus domain.ClassStatus
	svc := &MockClassService{
		SetStatusFunc: func(ctx context.Context, id string, status domain.ClassStatus) error {
			gotStatus = status
			return nil
		},
	}
	router := setupClassRouter(svc, "")

	body, _ := json.Marshal(dto.UpdateClassStatusRequest{Status: "approved"})
	req := httptest.NewRequest(http.MethodPatch, "/all-classes/class-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ClassStatusApproved, gotStatus)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := &MockClassService{
		SetStatusFunc: func(ctx context.Context, id string, status domain.ClassStatus) error {
			return domain.ErrInvalidClassStatus
		},
	}
	router := setupClassRouter(svc, "")

	body, _ := json.Marshal(dto.UpdateClassStatusRequest{Status: "maybe"})
	req := httptest.NewRequest(http.MethodPatch, "/all-classes/class-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFeedback(t *testing.T) {
	var gotFeedback string
	svc := &MockClassService{
		SetFeedbackFunc: func(ctx context.Context, id, feedback string) error {
			gotFeedback = feedback
			return nil
		},
	}
	router := setupClassRouter(svc, "")

	body, _ := json.Marshal(dto.UpdateFeedbackRequest{Feedback: "needs a syllabus"})
	req := httptest.NewRequest(http.MethodPatch, "/feedback/class-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "needs a syllabus", gotFeedback)
}

func TestSelectClass(t *testing.T) {
	svc := &MockClassService{
		SelectClassFunc: func(ctx context.Context, selection *domain.SelectedClass) (*domain.SelectedClass, error) {
			selection.ID = "sel-1"
			return selection, nil
		},
	}
	router := setupClassRouter(svc, "")

	body, _ := json.Marshal(dto.SelectClassRequest{
		Email:   "student@example.com",
		ClassID: "class-1",
		Price:   49.99,
	})
	req := httptest.NewRequest(http.MethodPost, "/selected-classes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sel-1", resp.InsertedID)
}

func TestListSelections_MissingEmailReturnsEmptyList(t *testing.T) {
	svc := &MockClassService{
		ListSelectionsFunc: func(ctx context.Context, email string) ([]*domain.SelectedClass, error) {
			t.Fatal("must short-circuit before the service")
			return nil, nil
		},
	}
	router := setupClassRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/selected-classes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetSelection_OwnRow(t *testing.T) {
	svc := &MockClassService{
		GetSelectionFunc: func(ctx context.Context, id string) (*domain.SelectedClass, error) {
			return &domain.SelectedClass{ID: id, Email: "student@example.com", ClassID: "class-1"}, nil
		},
	}
	router := setupClassRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/selected-classes/sel-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sel-1")
}

func TestGetSelection_ForeignRowForbidden(t *testing.T) {
	svc := &MockClassService{
		GetSelectionFunc: func(ctx context.Context, id string) (*domain.SelectedClass, error) {
			return &domain.SelectedClass{ID: id, Email: "other@example.com", ClassID: "class-1"}, nil
		},
	}
	router := setupClassRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/selected-classes/sel-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetSelection_NotFound(t *testing.T) {
	svc := &MockClassService{
		GetSelectionFunc: func(ctx context.Context, id string) (*domain.SelectedClass, error) {
			return nil, domain.ErrSelectionNotFound
		},
	}
	router := setupClassRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/selected-classes/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveSelection(t *testing.T) {
	svc := &MockClassService{
		RemoveSelectionFunc: func(ctx context.Context, id string) error {
			assert.Equal(t, "sel-1", id)
			return nil
		},
	}
	router := setupClassRouter(svc, "")

	req := httptest.NewRequest(http.MethodDelete, "/selected-classes/sel-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.DeleteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.DeletedCount)
}

func TestRemoveSelection_NotFound(t *testing.T) {
	svc := &MockClassService{
		RemoveSelectionFunc: func(ctx context.Context, id string) error {
			return domain.ErrSelectionNotFound
		},
	}
	router := setupClassRouter(svc, "")

	req := httptest.NewRequest(http.MethodDelete, "/selected-classes/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

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
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEnrollmentService implements service.EnrollmentService with function fields
type MockEnrollmentService struct {
	CreatePaymentIntentFunc func(ctx context.Context, email string, price float64) (string, error)
	CommitEnrollmentFunc    func(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error)
	ListPaymentsFunc        func(ctx context.Context, email string) ([]*domain.Payment, error)
	ListEnrolledClassesFunc func(ctx context.Context, email string) ([]*domain.EnrolledClass, error)
}

func (m *MockEnrollmentService) CreatePaymentIntent(ctx context.Context, email string, price float64) (string, error) {
	return m.CreatePaymentIntentFunc(ctx, email, price)
}

func (m *MockEnrollmentService) CommitEnrollment(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
	return m.CommitEnrollmentFunc(ctx, commit)
}

func (m *MockEnrollmentService) ListPayments(ctx context.Context, email string) ([]*domain.Payment, error) {
	return m.ListPaymentsFunc(ctx, email)
}

func (m *MockEnrollmentService) ListEnrolledClasses(ctx context.Context, email string) ([]*domain.EnrolledClass, error) {
	return m.ListEnrolledClassesFunc(ctx, email)
}

// asUser simulates a completed authentication for the given email
func asUser(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyEmail, email)
		c.Next()
	}
}

func setupEnrollmentRouter(svc *MockEnrollmentService, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(svc)

	router := gin.New()
	router.POST("/create-payment-intent", asUser(email), h.CreatePaymentIntent)
	router.POST("/payments", asUser(email), h.CommitEnrollment)
	router.GET("/payments", asUser(email), h.ListPayments)
	router.GET("/enrolled-classes", asUser(email), h.ListEnrolled)
	return router
}

func TestCreatePaymentIntent(t *testing.T) {
	svc := &MockEnrollmentService{
		CreatePaymentIntentFunc: func(ctx context.Context, email string, price float64) (string, error) {
			assert.Equal(t, "student@example.com", email)
			assert.Equal(t, 49.99, price)
			return "pi_123_secret_456", nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CreatePaymentIntentRequest{Price: 49.99})
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CreatePaymentIntentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_123_secret_456", resp.ClientSecret)
}

func TestCreatePaymentIntent_InvalidPrice(t *testing.T) {
	svc := &MockEnrollmentService{
		CreatePaymentIntentFunc: func(ctx context.Context, email string, price float64) (string, error) {
			return "", domain.ErrInvalidPrice
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CreatePaymentIntentRequest{Price: -5})
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentIntent_GatewayDown(t *testing.T) {
	svc := &MockEnrollmentService{
		CreatePaymentIntentFunc: func(ctx context.Context, email string, price float64) (string, error) {
			return "", domain.ErrChargeUnavailable
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CreatePaymentIntentRequest{Price: 20})
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCommitEnrollment(t *testing.T) {
	svc := &MockEnrollmentService{
		CommitEnrollmentFunc: func(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
			assert.Equal(t, "sel-1", commit.SelectedClassID)
			assert.Equal(t, "class-1", commit.ClassID)
			return &domain.EnrollmentCommitResult{
				PaymentID:         "pay-1",
				EnrollmentID:      "enr-1",
				SelectionsDeleted: 1,
				ClassesUpdated:    1,
			}, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CommitEnrollmentRequest{
		SelectedClassID: "sel-1",
		ClassID:         "class-1",
		Email:           "student@example.com",
		Price:           49.99,
		TransactionID:   "pi_test_123",
	})
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CommitEnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.InsertResult.Acknowledged)
	assert.Equal(t, "pay-1", resp.InsertResult.InsertedID)
	assert.Equal(t, int64(1), resp.DeleteResult.DeletedCount)
	assert.Equal(t, "enr-1", resp.EnrolledClassResult.InsertedID)
	assert.Equal(t, int64(1), resp.UpdateResult.ModifiedCount)
	assert.False(t, resp.AlreadyProcessed)
}

func TestCommitEnrollment_EmailMismatch(t *testing.T) {
	svc := &MockEnrollmentService{
		CommitEnrollmentFunc: func(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
			t.Fatal("must not commit on someone else's behalf")
			return nil, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CommitEnrollmentRequest{
		SelectedClassID: "sel-1",
		ClassID:         "class-1",
		Email:           "victim@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommitEnrollment_Replay(t *testing.T) {
	svc := &MockEnrollmentService{
		CommitEnrollmentFunc: func(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
			return &domain.EnrollmentCommitResult{
				PaymentID:        "pay-1",
				EnrollmentID:     "enr-1",
				AlreadyProcessed: true,
			}, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CommitEnrollmentRequest{
		SelectedClassID: "sel-1",
		ClassID:         "class-1",
		Email:           "student@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CommitEnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.AlreadyProcessed)
	assert.Equal(t, int64(0), resp.DeleteResult.DeletedCount)
}

func TestCommitEnrollment_NoSeats(t *testing.T) {
	svc := &MockEnrollmentService{
		CommitEnrollmentFunc: func(ctx context.Context, commit *domain.EnrollmentCommit) (*domain.EnrollmentCommitResult, error) {
			return nil, domain.ErrNoSeatsAvailable
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	body, _ := json.Marshal(dto.CommitEnrollmentRequest{
		SelectedClassID: "sel-1",
		ClassID:         "class-1",
		Email:           "student@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListPayments_OwnRows(t *testing.T) {
	svc := &MockEnrollmentService{
		ListPaymentsFunc: func(ctx context.Context, email string) ([]*domain.Payment, error) {
			assert.Equal(t, "student@example.com", email)
			return []*domain.Payment{{ID: "pay-1", Email: email}}, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/payments?email=student@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pay-1")
}

func TestListPayments_MissingEmailReturnsEmptyList(t *testing.T) {
	svc := &MockEnrollmentService{
		ListPaymentsFunc: func(ctx context.Context, email string) ([]*domain.Payment, error) {
			t.Fatal("must short-circuit before the service")
			return nil, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListPayments_ForeignEmailForbidden(t *testing.T) {
	svc := &MockEnrollmentService{
		ListPaymentsFunc: func(ctx context.Context, email string) ([]*domain.Payment, error) {
			t.Fatal("must not read someone else's payments")
			return nil, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/payments?email=victim@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListEnrolled_OwnRows(t *testing.T) {
	svc := &MockEnrollmentService{
		ListEnrolledClassesFunc: func(ctx context.Context, email string) ([]*domain.EnrolledClass, error) {
			return []*domain.EnrolledClass{{ID: "enr-1", Email: email, ClassName: "Piano Basics"}}, nil
		},
	}
	router := setupEnrollmentRouter(svc, "student@example.com")

	req := httptest.NewRequest(http.MethodGet, "/enrolled-classes?email=student@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Piano Basics")
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/dto"
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/melodymaster/enrollment-api/internal/service"
)

// EnrollmentHandler handles payment intents, the enrollment commit, and
// the student's payment/enrollment history
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollments service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// CreatePaymentIntent handles POST /create-payment-intent (student only)
func (h *EnrollmentHandler) CreatePaymentIntent(c *gin.Context) {
	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "price is required")
		return
	}

	email, _ := middleware.GetEmail(c)

	clientSecret, err := h.enrollments.CreatePaymentIntent(c.Request.Context(), email, req.Price)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreatePaymentIntentResponse{
		ClientSecret: clientSecret,
	})
}

// CommitEnrollment handles POST /payments (student only). The body's email
// must match the authenticated caller; nobody commits a payment on someone
// else's behalf.
func (h *EnrollmentHandler) CommitEnrollment(c *gin.Context) {
	var req dto.CommitEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "selectedClassId, classId and email are required")
		return
	}

	authEmail, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	if req.Email != authEmail {
		response.Forbidden(c, "forbidden access")
		return
	}

	commit := &domain.EnrollmentCommit{
		Email:           req.Email,
		ClassID:         req.ClassID,
		SelectedClassID: req.SelectedClassID,
		ClassName:       req.ClassName,
		Image:           req.Image,
		InstructorName:  req.Instructor,
		TransactionID:   req.TransactionID,
		Price:           req.Price,
	}
	if req.Date != "" {
		if paidAt, err := time.Parse(time.RFC3339, req.Date); err == nil {
			commit.PaidAt = paidAt
		}
	}

	result, err := h.enrollments.CommitEnrollment(c.Request.Context(), commit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, commitResponse(result))
}

// ListPayments handles GET /payments (student only, own rows)
func (h *EnrollmentHandler) ListPayments(c *gin.Context) {
	email, ok := ownedEmailQuery(c)
	if !ok {
		return
	}

	payments, err := h.enrollments.ListPayments(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if payments == nil {
		payments = []*domain.Payment{}
	}
	c.JSON(http.StatusOK, payments)
}

// ListEnrolled handles GET /enrolled-classes (student only, own rows)
func (h *EnrollmentHandler) ListEnrolled(c *gin.Context) {
	email, ok := ownedEmailQuery(c)
	if !ok {
		return
	}

	enrolled, err := h.enrollments.ListEnrolledClasses(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if enrolled == nil {
		enrolled = []*domain.EnrolledClass{}
	}
	c.JSON(http.StatusOK, enrolled)
}

// commitResponse maps the store result onto the per-step response shape
// the frontend consumes. The steps ran in one transaction, so counts are
// either all present or the request already failed.
func commitResponse(result *domain.EnrollmentCommitResult) dto.CommitEnrollmentResponse {
	if result.AlreadyProcessed {
		return dto.CommitEnrollmentResponse{
			InsertResult:        dto.InsertResult{Acknowledged: true, InsertedID: result.PaymentID},
			DeleteResult:        dto.DeleteResult{Acknowledged: true, DeletedCount: 0},
			EnrolledClassResult: dto.InsertResult{Acknowledged: true, InsertedID: result.EnrollmentID},
			UpdateResult:        dto.UpdateResult{Acknowledged: true},
			AlreadyProcessed:    true,
		}
	}

	return dto.CommitEnrollmentResponse{
		InsertResult: dto.InsertResult{Acknowledged: true, InsertedID: result.PaymentID},
		DeleteResult: dto.DeleteResult{Acknowledged: true, DeletedCount: result.SelectionsDeleted},
		EnrolledClassResult: dto.InsertResult{
			Acknowledged: true,
			InsertedID:   result.EnrollmentID,
		},
		UpdateResult: dto.UpdateResult{
			Acknowledged:  true,
			MatchedCount:  result.ClassesUpdated,
			ModifiedCount: result.ClassesUpdated,
		},
	}
}

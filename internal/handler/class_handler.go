package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/dto"
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/melodymaster/enrollment-api/internal/service"
)

// ClassHandler manages the class catalog and student selections
type ClassHandler struct {
	classes service.ClassService
}

// NewClassHandler creates a new ClassHandler
func NewClassHandler(classes service.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// ListApproved handles GET /classes (public catalog)
func (h *ClassHandler) ListApproved(c *gin.Context) {
	classes, err := h.classes.ListApproved(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if classes == nil {
		classes = []*domain.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

// ListPopular handles GET /popular-classes (public)
func (h *ClassHandler) ListPopular(c *gin.Context) {
	classes, err := h.classes.ListPopular(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if classes == nil {
		classes = []*domain.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

// ListAll handles GET /all-classes (admin review queue)
func (h *ClassHandler) ListAll(c *gin.Context) {
	classes, err := h.classes.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if classes == nil {
		classes = []*domain.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

// CreateClass handles POST /classes (instructor only)
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, instructorEmail, availableSeats and price are required")
		return
	}

	class := &domain.Class{
		Name:            req.Name,
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		AvailableSeats:  req.AvailableSeats,
		Price:           req.Price,
	}

	created, err := h.classes.CreateClass(c.Request.Context(), class)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InsertResult{
		Acknowledged: true,
		InsertedID:   created.ID,
	})
}

// ListMine handles GET /my-classes (instructor only, own classes)
func (h *ClassHandler) ListMine(c *gin.Context) {
	email, ok := ownedEmailQuery(c)
	if !ok {
		return
	}

	classes, err := h.classes.ListByInstructor(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if classes == nil {
		classes = []*domain.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

// UpdateStatus handles PATCH /all-classes/:id (admin only)
func (h *ClassHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateClassStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	if err := h.classes.SetStatus(c.Request.Context(), id, domain.ClassStatus(req.Status)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  1,
		ModifiedCount: 1,
	})
}

// UpdateFeedback handles PATCH /feedback/:id (admin only)
func (h *ClassHandler) UpdateFeedback(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "feedback is required")
		return
	}

	if err := h.classes.SetFeedback(c.Request.Context(), id, req.Feedback); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  1,
		ModifiedCount: 1,
	})
}

// SelectClass handles POST /selected-classes (student only)
func (h *ClassHandler) SelectClass(c *gin.Context) {
	var req dto.SelectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and classId are required")
		return
	}

	selection := &domain.SelectedClass{
		Email:          req.Email,
		ClassID:        req.ClassID,
		ClassName:      req.ClassName,
		Image:          req.Image,
		InstructorName: req.Instructor,
		Price:          req.Price,
	}

	created, err := h.classes.SelectClass(c.Request.Context(), selection)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InsertResult{
		Acknowledged: true,
		InsertedID:   created.ID,
	})
}

// ListSelections handles GET /selected-classes (student only, own rows)
func (h *ClassHandler) ListSelections(c *gin.Context) {
	email, ok := ownedEmailQuery(c)
	if !ok {
		return
	}

	selections, err := h.classes.ListSelections(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if selections == nil {
		selections = []*domain.SelectedClass{}
	}
	c.JSON(http.StatusOK, selections)
}

// GetSelection handles GET /selected-classes/:id (student only, own row)
func (h *ClassHandler) GetSelection(c *gin.Context) {
	id := c.Param("id")

	selection, err := h.classes.GetSelection(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	authEmail, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	if selection.Email != authEmail {
		response.Forbidden(c, "forbidden access")
		return
	}

	c.JSON(http.StatusOK, selection)
}

// RemoveSelection handles DELETE /selected-classes/:id (student only)
func (h *ClassHandler) RemoveSelection(c *gin.Context) {
	id := c.Param("id")

	if err := h.classes.RemoveSelection(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResult{
		Acknowledged: true,
		DeletedCount: 1,
	})
}

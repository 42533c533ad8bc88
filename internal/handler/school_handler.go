package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/planboard/internal/middleware"
	"github.com/hitoshi/planboard/internal/model"
	"github.com/hitoshi/planboard/internal/school"
)

// SchoolServiceInterface は学校プランナーハンドラーが必要とするサービスインターフェース。
type SchoolServiceInterface interface {
	ListClasses(ctx context.Context, userID string) ([]*model.ClassSession, error)
	CreateClass(ctx context.Context, userID string, input school.ClassInput) (*model.ClassSession, error)
	UpdateClass(ctx context.Context, userID, classID string, input school.ClassInput) (*model.ClassSession, error)
	DeleteClass(ctx context.Context, userID, classID string) error

	ListAssignments(ctx context.Context, userID string) ([]*model.Assignment, error)
	CreateAssignment(ctx context.Context, userID string, input school.AssignmentInput) (*model.Assignment, error)
	UpdateAssignment(ctx context.Context, userID, assignmentID string, input school.AssignmentInput) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, userID, assignmentID string) error
}

// SchoolHandler は学校プランナーのHTTPハンドラー。
type SchoolHandler struct {
	service SchoolServiceInterface
}

// NewSchoolHandler はSchoolHandlerを生成する。
func NewSchoolHandler(service SchoolServiceInterface) *SchoolHandler {
	return &SchoolHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// classRequest は授業コマ作成・更新リクエストのボディ。
type classRequest struct {
	Subject   string `json:"subject"`
	Room      string `json:"room,omitempty"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Note      string `json:"note,omitempty"`
}

// classResponse は授業コマのレスポンス。
type classResponse struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Room      string    `json:"room"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// assignmentRequest は課題作成・更新リクエストのボディ。
type assignmentRequest struct {
	ClassID *string `json:"class_id,omitempty"`
	Title   string  `json:"title"`
	DueDate string  `json:"due_date"`
	Done    bool    `json:"done"`
}

// assignmentResponse は課題のレスポンス。
type assignmentResponse struct {
	ID        string    `json:"id"`
	ClassID   *string   `json:"class_id,omitempty"`
	Title     string    `json:"title"`
	DueDate   string    `json:"due_date"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClassResponse(class *model.ClassSession) classResponse {
	return classResponse{
		ID:        class.ID,
		Subject:   class.Subject,
		Room:      class.Room,
		DayOfWeek: class.DayOfWeek,
		StartTime: class.StartTime,
		EndTime:   class.EndTime,
		Note:      class.Note,
		CreatedAt: class.CreatedAt,
		UpdatedAt: class.UpdatedAt,
	}
}

func toAssignmentResponse(assignment *model.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:        assignment.ID,
		ClassID:   assignment.ClassID,
		Title:     assignment.Title,
		DueDate:   assignment.DueDate,
		Done:      assignment.Done,
		CreatedAt: assignment.CreatedAt,
		UpdatedAt: assignment.UpdatedAt,
	}
}

func toClassInput(req classRequest) school.ClassInput {
	return school.ClassInput{
		Subject:   req.Subject,
		Room:      req.Room,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	}
}

func toAssignmentInput(req assignmentRequest) school.AssignmentInput {
	return school.AssignmentInput{
		ClassID: req.ClassID,
		Title:   req.Title,
		DueDate: req.DueDate,
		Done:    req.Done,
	}
}

// --- 授業コマ ---

// ListClasses は授業コマ一覧を取得する。
// GET /api/school/classes
func (h *SchoolHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	classes, err := h.service.ListClasses(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]classResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, toClassResponse(class))
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": responses})
}

// CreateClass は授業コマを作成する。
// POST /api/school/classes
func (h *SchoolHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req classRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	class, err := h.service.CreateClass(r.Context(), userID, toClassInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClassResponse(class))
}

// UpdateClass は授業コマを更新する。
// PUT /api/school/classes/{id}
func (h *SchoolHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req classRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	class, err := h.service.UpdateClass(r.Context(), userID, chi.URLParam(r, "id"), toClassInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClassResponse(class))
}

// DeleteClass は授業コマを削除する。
// DELETE /api/school/classes/{id}
func (h *SchoolHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteClass(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- 課題 ---

// ListAssignments は課題一覧を取得する。
// GET /api/school/assignments
func (h *SchoolHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	assignments, err := h.service.ListAssignments(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]assignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, toAssignmentResponse(assignment))
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": responses})
}

// CreateAssignment は課題を作成する。
// POST /api/school/assignments
func (h *SchoolHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req assignmentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	assignment, err := h.service.CreateAssignment(r.Context(), userID, toAssignmentInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(assignment))
}

// UpdateAssignment は課題を更新する。
// PUT /api/school/assignments/{id}
func (h *SchoolHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req assignmentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	assignment, err := h.service.UpdateAssignment(r.Context(), userID, chi.URLParam(r, "id"), toAssignmentInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
}

// DeleteAssignment は課題を削除する。
// DELETE /api/school/assignments/{id}
func (h *SchoolHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteAssignment(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

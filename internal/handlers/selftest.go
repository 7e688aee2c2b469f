package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
	"github.com/tropicaldog17/dashboards/internal/models"
	"github.com/tropicaldog17/dashboards/internal/services"
)

type SelfTestHandler struct {
	service services.SelfTestService
	tokens  services.TokenService
	logger  *zap.Logger
}

func NewSelfTestHandler(service services.SelfTestService, tokens services.TokenService, logger *zap.Logger) *SelfTestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelfTestHandler{service: service, tokens: tokens, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type submitResponse struct {
	Outcome models.SubmitOutcome `json:"outcome"`
}

// HandleLogin handles POST /api/selftest/login
// @Summary Log in to the self-test tracker
// @Description Check credentials against the member roster and issue a session token
// @Tags selftest
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Username and password"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /selftest/login [post]
func (h *SelfTestHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Name: user.Name})
}

// HandleWeeks handles GET /api/selftest/weeks
// @Summary Get the week table
// @Description List the ISO weeks of the tracker year and the weeks open for submissions
// @Tags selftest
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.WeekTable
// @Failure 401 {object} errorResponse
// @Router /selftest/weeks [get]
func (h *SelfTestHandler) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Weeks())
}

// HandleLog handles GET /api/selftest/log
// @Summary Get the submission log
// @Description List every submission, newest week first; rows of past weeks are flagged closed
// @Tags selftest
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LogView
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /selftest/log [get]
func (h *SelfTestHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	views, err := h.service.Log(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleAttendance handles GET /api/selftest/attendance?year=2022&week=3&include_untested=true
// @Summary Get weekly attendance
// @Description One row per member and declared office day for the week
// @Tags selftest
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (default tracker year)"
// @Param week query int false "ISO week (default latest active week)"
// @Param include_untested query bool false "Add a row for members without a submission (default true)"
// @Success 200 {array} models.AttendanceRow
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /selftest/attendance [get]
func (h *SelfTestHandler) HandleAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	year, err := intParam(q.Get("year"), "year")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	week, err := intParam(q.Get("week"), "week")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	opts := services.UnrollOptions{IncludeUntested: true}
	if s := q.Get("include_untested"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, h.logger, &apperrors.ErrValidation{Field: "include_untested", Message: "must be a boolean"})
			return
		}
		opts.IncludeUntested = b
	}

	rows, err := h.service.Attendance(r.Context(), year, week, opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleSubmit handles POST /api/selftest/submissions
// @Summary Submit a self test
// @Description Record the logged-in member's test for a week. A repeat submission for the same week is skipped.
// @Tags selftest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body models.Submission true "Self test"
// @Success 201 {object} submitResponse "accepted"
// @Success 200 {object} submitResponse "skipped"
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /selftest/submissions [post]
func (h *SelfTestHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrAuthenticationFailed)
		return
	}

	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, h.logger, &apperrors.ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}

	outcome, err := h.service.Submit(r.Context(), user, &sub)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	status := http.StatusOK
	if outcome == models.SubmitAccepted {
		status = http.StatusCreated
	}
	writeJSON(w, status, submitResponse{Outcome: outcome})
}

func intParam(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &apperrors.ErrValidation{Field: field, Message: "must be an integer"}
	}
	return n, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billdom "github.com/rskala/campusbridge-backend/internal/domain/billing"
	"github.com/rskala/campusbridge-backend/internal/http/response"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/requestdata"
	"github.com/rskala/campusbridge-backend/internal/services"
)

// PortalHandler exposes the guardian-facing read endpoints. Every route runs
// behind auth with role PARENT; the service layer re-checks per-student
// access on top.
type PortalHandler struct {
	portal *services.PortalService
	log    *logger.Logger
}

func NewPortalHandler(portal *services.PortalService, baseLog *logger.Logger) *PortalHandler {
	return &PortalHandler{portal: portal, log: baseLog.With("handler", "PortalHandler")}
}

func (h *PortalHandler) callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
		})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *PortalHandler) GetDashboard(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	overview, err := h.portal.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, overview)
}

func (h *PortalHandler) ListStudents(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	students, err := h.portal.ListLinkedStudents(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"students": students})
}

func (h *PortalHandler) GetStudentSchedule(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	studentID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	items, err := h.portal.GetStudentSchedule(c.Request.Context(), userID, studentID, from, to, intQuery(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": items})
}

func (h *PortalHandler) GetStudentAttendance(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	studentID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	report, err := h.portal.GetStudentAttendance(c.Request.Context(), userID, studentID, from, to,
		intQuery(c, "page", 0), intQuery(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (h *PortalHandler) GetStudentGrades(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	studentID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	subjectID, err := uuidQuery(c, "subject_id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	paged, err := h.portal.GetStudentGrades(c.Request.Context(), userID, studentID, subjectID,
		intQuery(c, "page", 0), intQuery(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, paged)
}

func (h *PortalHandler) GetStudentInvoices(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	studentID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var status *billdom.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		st := billdom.InvoiceStatus(raw)
		status = &st
	}
	paged, err := h.portal.GetStudentInvoices(c.Request.Context(), userID, studentID, status,
		intQuery(c, "page", 0), intQuery(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, paged)
}

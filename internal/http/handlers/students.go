package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	studentrepo "github.com/rskala/campusbridge-backend/internal/data/repos/student"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/http/response"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/services"
)

type StudentsHandler struct {
	students *services.StudentsService
	log      *logger.Logger
}

func NewStudentsHandler(students *services.StudentsService, baseLog *logger.Logger) *StudentsHandler {
	return &StudentsHandler{students: students, log: baseLog.With("handler", "StudentsHandler")}
}

type createStudentBody struct {
	Identity identityBody `json:"identity" binding:"required"`
	Profile  struct {
		Code     *string        `json:"code"`
		Metadata map[string]any `json:"metadata"`
	} `json:"profile"`
	Links []struct {
		GuardianID   uuid.UUID `json:"guardian_id" binding:"required"`
		Relationship string    `json:"relationship"`
		IsPrimary    bool      `json:"is_primary"`
		Status       string    `json:"status"`
	} `json:"links"`
}

func (h *StudentsHandler) Create(c *gin.Context) {
	var body createStudentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	links := make([]services.GuardianLinkInput, 0, len(body.Links))
	for _, l := range body.Links {
		links = append(links, services.GuardianLinkInput{
			GuardianID:   l.GuardianID,
			Relationship: l.Relationship,
			IsPrimary:    l.IsPrimary,
			Status:       l.Status,
		})
	}

	st, err := h.students.Create(c.Request.Context(),
		services.IdentityInput{
			Email:       body.Identity.Email,
			Handle:      body.Identity.Handle,
			DisplayName: body.Identity.DisplayName,
			Password:    body.Identity.Password,
			Role:        string(identity.RoleStudent),
			Status:      body.Identity.Status,
			Phone:       body.Identity.Phone,
			BirthDate:   body.Identity.BirthDate,
		},
		services.StudentProfileInput{
			Code:     body.Profile.Code,
			Metadata: body.Profile.Metadata,
		},
		links,
	)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, st)
}

type createStudentProfileBody struct {
	UserID   uuid.UUID      `json:"user_id" binding:"required"`
	Code     *string        `json:"code"`
	Metadata map[string]any `json:"metadata"`
}

// CreateProfile attaches a student profile to an existing STUDENT account.
func (h *StudentsHandler) CreateProfile(c *gin.Context) {
	var body createStudentProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	st, err := h.students.CreateProfile(c.Request.Context(), body.UserID, services.StudentProfileInput{
		Code:     body.Code,
		Metadata: body.Metadata,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, st)
}

func (h *StudentsHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	st, err := h.students.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, st)
}

type updateStudentBody struct {
	Code     *string        `json:"code"`
	Metadata map[string]any `json:"metadata"`
}

func (h *StudentsHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var body updateStudentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	st, err := h.students.UpdateProfile(c.Request.Context(), id, studentrepo.StudentPatch{
		Code:     body.Code,
		Metadata: body.Metadata,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, st)
}

func (h *StudentsHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.students.DeleteProfile(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *StudentsHandler) ListLinks(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	links, err := h.students.ListGuardianLinks(c.Request.Context(), id, boolQuery(c, "only_active"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"links": links})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	guardianrepo "github.com/rskala/campusbridge-backend/internal/data/repos/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/http/response"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/services"
)

type GuardiansHandler struct {
	guardians *services.GuardiansService
	log       *logger.Logger
}

func NewGuardiansHandler(guardians *services.GuardiansService, baseLog *logger.Logger) *GuardiansHandler {
	return &GuardiansHandler{guardians: guardians, log: baseLog.With("handler", "GuardiansHandler")}
}

type identityBody struct {
	Email       string     `json:"email" binding:"required,email"`
	Handle      string     `json:"handle" binding:"required"`
	DisplayName string     `json:"display_name" binding:"required"`
	Password    string     `json:"password" binding:"required,min=8"`
	Status      string     `json:"status"`
	Phone       string     `json:"phone"`
	BirthDate   *time.Time `json:"birth_date"`
}

type createGuardianBody struct {
	Identity identityBody `json:"identity" binding:"required"`
	Profile  struct {
		Phone          string         `json:"phone"`
		SecondaryEmail string         `json:"secondary_email"`
		Address        string         `json:"address"`
		Notes          string         `json:"notes"`
		Metadata       map[string]any `json:"metadata"`
	} `json:"profile"`
	Links []struct {
		StudentID    uuid.UUID `json:"student_id" binding:"required"`
		Relationship string    `json:"relationship"`
		IsPrimary    bool      `json:"is_primary"`
		Status       string    `json:"status"`
	} `json:"links"`
}

func (h *GuardiansHandler) Create(c *gin.Context) {
	var body createGuardianBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	links := make([]services.StudentLinkInput, 0, len(body.Links))
	for _, l := range body.Links {
		links = append(links, services.StudentLinkInput{
			StudentID:    l.StudentID,
			Relationship: l.Relationship,
			IsPrimary:    l.IsPrimary,
			Status:       l.Status,
		})
	}

	g, err := h.guardians.Create(c.Request.Context(),
		services.IdentityInput{
			Email:       body.Identity.Email,
			Handle:      body.Identity.Handle,
			DisplayName: body.Identity.DisplayName,
			Password:    body.Identity.Password,
			Role:        string(identity.RoleParent),
			Status:      body.Identity.Status,
			Phone:       body.Identity.Phone,
			BirthDate:   body.Identity.BirthDate,
		},
		services.GuardianProfileInput{
			Phone:          body.Profile.Phone,
			SecondaryEmail: body.Profile.SecondaryEmail,
			Address:        body.Profile.Address,
			Notes:          body.Profile.Notes,
			Metadata:       body.Profile.Metadata,
		},
		links,
	)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, g)
}

func (h *GuardiansHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.guardians.FindByID(c.Request.Context(), id, boolQuery(c, "with_links"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, g)
}

func (h *GuardiansHandler) Search(c *gin.Context) {
	filters := guardianrepo.SearchGuardiansFilters{
		Query:  c.Query("query"),
		Status: identity.Status(c.Query("status")),
		Page:   intQuery(c, "page", 0),
		Limit:  intQuery(c, "limit", 0),
	}
	if sid, err := uuidQuery(c, "student_id"); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	} else if sid != nil {
		filters.StudentID = *sid
	}

	paged, err := h.guardians.Search(c.Request.Context(), filters)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, paged)
}

type updateGuardianBody struct {
	Phone          *string        `json:"phone"`
	SecondaryEmail *string        `json:"secondary_email"`
	Address        *string        `json:"address"`
	Notes          *string        `json:"notes"`
	Metadata       map[string]any `json:"metadata"`
	DisplayName    *string        `json:"display_name"`
	Password       *string        `json:"password"`
	Status         *string        `json:"status"`
}

func (h *GuardiansHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var body updateGuardianBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	g, err := h.guardians.Update(c.Request.Context(), id, services.UpdateGuardianInput{
		Phone:          body.Phone,
		SecondaryEmail: body.SecondaryEmail,
		Address:        body.Address,
		Notes:          body.Notes,
		Metadata:       body.Metadata,
		DisplayName:    body.DisplayName,
		Password:       body.Password,
		Status:         body.Status,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, g)
}

func (h *GuardiansHandler) ListLinks(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	links, err := h.guardians.ListLinks(c.Request.Context(), id, boolQuery(c, "only_active"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"links": links})
}

type linkStudentBody struct {
	Relationship string `json:"relationship"`
	IsPrimary    bool   `json:"is_primary"`
	Status       string `json:"status"`
}

func (h *GuardiansHandler) LinkStudent(c *gin.Context) {
	guardianID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	studentID, err := uuidParam(c, "studentId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var body linkStudentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	link, err := h.guardians.LinkStudent(c.Request.Context(), guardianID, studentID, services.LinkStudentInput{
		Relationship: body.Relationship,
		IsPrimary:    body.IsPrimary,
		Status:       body.Status,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, link)
}

type updateLinkBody struct {
	Relationship *string        `json:"relationship"`
	IsPrimary    *bool          `json:"is_primary"`
	Status       *string        `json:"status"`
	Metadata     map[string]any `json:"metadata"`
}

func (h *GuardiansHandler) UpdateLink(c *gin.Context) {
	guardianID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	studentID, err := uuidParam(c, "studentId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var body updateLinkBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	link, err := h.guardians.UpdateLink(c.Request.Context(), guardianID, studentID, services.UpdateLinkInput{
		Relationship: body.Relationship,
		IsPrimary:    body.IsPrimary,
		Status:       body.Status,
		Metadata:     body.Metadata,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, link)
}

func (h *GuardiansHandler) UnlinkStudent(c *gin.Context) {
	guardianID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	studentID, err := uuidParam(c, "studentId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.guardians.UnlinkStudent(c.Request.Context(), guardianID, studentID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// ListForStudent is the staff-side reverse lookup.
func (h *GuardiansHandler) ListForStudent(c *gin.Context) {
	studentID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	paged, err := h.guardians.ListGuardiansForStudent(c.Request.Context(), studentID,
		intQuery(c, "page", 0), intQuery(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, paged)
}

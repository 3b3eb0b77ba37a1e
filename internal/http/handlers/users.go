package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityrepo "github.com/rskala/campusbridge-backend/internal/data/repos/identity"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/http/response"
	"github.com/rskala/campusbridge-backend/internal/platform/logger"
	"github.com/rskala/campusbridge-backend/internal/services"
)

type UsersHandler struct {
	users *services.UsersService
	log   *logger.Logger
}

func NewUsersHandler(users *services.UsersService, baseLog *logger.Logger) *UsersHandler {
	return &UsersHandler{users: users, log: baseLog.With("handler", "UsersHandler")}
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UsersHandler) Search(c *gin.Context) {
	paged, err := h.users.Search(c.Request.Context(), identityrepo.SearchUsersFilters{
		Query:  c.Query("query"),
		Role:   identity.Role(c.Query("role")),
		Status: identity.Status(c.Query("status")),
		Page:   intQuery(c, "page", 0),
		Limit:  intQuery(c, "limit", 0),
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, paged)
}

type updateUserBody struct {
	DisplayName *string        `json:"display_name"`
	Password    *string        `json:"password"`
	Status      *string        `json:"status"`
	Phone       *string        `json:"phone"`
	Metadata    map[string]any `json:"metadata"`
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var body updateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, services.UpdateUserInput{
		DisplayName: body.DisplayName,
		Password:    body.Password,
		Status:      body.Status,
		Phone:       body.Phone,
		Metadata:    body.Metadata,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, user)
}

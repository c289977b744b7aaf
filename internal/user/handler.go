package user

import (
	"net/http"
	"strconv"

	"github.com/kinyy999/sample-share-backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func respondError(c echo.Context, err error) error {
	return c.JSON(apperr.GetStatus(err), map[string]string{"error": apperr.GetMessage(err)})
}

// Регистрация пользователя
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	user, err := h.service.RegisterUser(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Авторизация пользователя
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	token, role, err := h.service.Authenticate(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, Role: role})
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	if err := h.service.RecoverPassword(req.Email); err != nil {
		return respondError(c, apperr.ErrInternalServer)
	}

	// Ответ одинаковый и для неизвестного email
	return c.JSON(http.StatusOK, map[string]string{"message": "If the email exists, a reset link was sent"})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	if err := h.service.ResetPassword(req.Token, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// Список пользователей (только админ), поле password не возвращается
func (h *Handler) List(c echo.Context) error {
	users, err := h.service.ListUsers()
	if err != nil {
		return respondError(c, apperr.ErrInternalServer)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) Delete(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	requesterID, _ := c.Get("user_id").(int)

	if err := h.service.DeleteUser(userID, requesterID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *Handler) UpdateRole(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrInvalidRole)
	}

	if err := h.service.ChangeRole(userID, req.Role); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Role updated"})
}

func (h *Handler) UpdateActive(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	var req UpdateActiveRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	if err := h.service.SetActive(userID, *req.IsActive); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Active flag updated"})
}

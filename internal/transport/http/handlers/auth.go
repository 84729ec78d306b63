package http_handlers

import (
	"net/http"

	"github.com/openadmit/auth-service/internal/application/auth"
	"github.com/openadmit/auth-service/internal/domain"
	"github.com/openadmit/auth-service/internal/logger"
	"github.com/openadmit/auth-service/internal/transport/http/dto"
	"github.com/openadmit/auth-service/internal/transport/http/middleware"
	"github.com/openadmit/auth-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func userView(u domain.User) dto.UserView {
	return dto.UserView{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Signup(r.Context(), auth.SignupInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	l := logger.WithCtx(r.Context())
	l.Info().
		Str("user_id", id).
		Msg("user_signed_up")

	response.Created(w, dto.SignupData{
		Message: dto.MsgAccountCreated,
		UserID:  id,
	})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	l := logger.WithCtx(r.Context())
	l.Info().
		Str("user_id", res.User.ID).
		Msg("user_signed_in")

	response.OK(w, dto.SigninData{
		Message:     dto.MsgLoginSuccessful,
		User:        userView(res.User),
		AccessToken: res.Token,
		TokenType:   res.TokenType,
		ExpiresIn:   res.ExpiresIn,
	})
}

func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.VerifyUser(r.Context(), req.Username, req.Email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.VerifyUserData{
		Message:  dto.MsgUserVerified,
		Username: u.Username,
		Email:    u.Email,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Username, req.Email, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	l := logger.WithCtx(r.Context())
	l.Info().
		Str("username", domain.NormalizeKey(req.Username)).
		Msg("password_reset")

	response.OK(w, dto.ResetPasswordData{
		Message: dto.MsgPasswordUpdated,
	})
}

// Me returns the account behind the presented access token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: userView(u)})
}

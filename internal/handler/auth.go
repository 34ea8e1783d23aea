package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

type AuthHandler struct {
	authUC     *usecase.AuthUsecase
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewAuthHandler stores sessions in an HttpOnly cookie named cookieName.
// secure should be true whenever the portal is served over TLS.
func NewAuthHandler(authUC *usecase.AuthUsecase, cookieName string, secure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authUC: authUC, cookieName: cookieName, secure: secure, logger: logger}
}

func (h *AuthHandler) setSession(w http.ResponseWriter, s *usecase.Session) {
	c := &http.Cookie{
		Name:     h.cookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		c.Expires = s.ExpiresAt
	}
	http.SetCookie(w, c)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	s, err := h.authUC.Login(r.Context(), domain.LoginForm{Email: f.get("email"), Password: f.get("password")})
	if err != nil {
		writeError(w, h.logger, "login", err)
		return
	}
	h.setSession(w, s)
	response.OK(w, "Connexion réussie")
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	s, err := h.authUC.SignUp(r.Context(), domain.SignUpForm{
		Email:     f.get("email"),
		Password:  f.get("password"),
		Confirm:   f.get("confirmPassword"),
		FirstName: f.get("firstName"),
		LastName:  f.get("lastName"),
		Phone:     f.get("phone", "phoneNumber"),
	})
	if err != nil {
		writeError(w, h.logger, "signup", err)
		return
	}
	if s.Token != "" {
		h.setSession(w, s)
	}
	response.JSON(w, http.StatusCreated, response.Message{Success: true, Message: "Compte créé avec succès"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	response.OK(w, "Déconnexion réussie")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFrom(r.Context())
	u, err := h.authUC.Me(r.Context(), s.Token)
	if err != nil {
		writeError(w, h.logger, "load current user", err)
		return
	}
	response.Data(w, u)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

const defaultPageSize = 20

// ReclamationHandler proxies customer complaints to the tenant API. Every
// route sits behind RequireSession.
type ReclamationHandler struct {
	reclamationUC *usecase.ReclamationUsecase
	logger        *zap.Logger
}

func NewReclamationHandler(reclamationUC *usecase.ReclamationUsecase, logger *zap.Logger) *ReclamationHandler {
	return &ReclamationHandler{reclamationUC: reclamationUC, logger: logger}
}

func (h *ReclamationHandler) List(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFrom(r.Context())
	page, err := h.reclamationUC.List(r.Context(), s.Token, queryInt(r, "limit", defaultPageSize), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, h.logger, "list reclamations", err)
		return
	}
	response.Data(w, page)
}

func (h *ReclamationHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFrom(r.Context())
	rec, err := h.reclamationUC.Get(r.Context(), s.Token, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get reclamation", err)
		return
	}
	response.Data(w, rec)
}

func (h *ReclamationHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	s, _ := SessionFrom(r.Context())
	rec, err := h.reclamationUC.Create(r.Context(), s.Token, UserID(r.Context()), domain.ReclamationForm{
		Type:          f.get("type"),
		Subject:       f.get("subject"),
		Description:   f.get("description"),
		AccountNumber: f.get("accountNumber"),
		Priority:      f.get("priority"),
	})
	if err != nil {
		writeError(w, h.logger, "create reclamation", err)
		return
	}
	response.DataWithMessage(w, http.StatusCreated, "Votre réclamation a été enregistrée", rec)
}

package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

type InvestmentHandler struct {
	investUC *usecase.InvestmentUsecase
	logger   *zap.Logger
}

func NewInvestmentHandler(investUC *usecase.InvestmentUsecase, logger *zap.Logger) *InvestmentHandler {
	return &InvestmentHandler{investUC: investUC, logger: logger}
}

func (h *InvestmentHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.investUC.Products(r.Context())
	if err != nil {
		writeError(w, h.logger, "list investment products", err)
		return
	}
	response.Data(w, products)
}

func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.investUC.List(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "list investments", err)
		return
	}
	response.Data(w, list)
}

func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	inv, err := h.investUC.Create(r.Context(), UserID(r.Context()), domain.InvestmentForm{
		Product:        f.get("product", "productId"),
		Amount:         f.get("amount"),
		DurationMonths: f.get("duration", "durationMonths"),
		SourceAccount:  f.get("sourceAccount"),
		OTPCode:        f.get("otpCode", "otp"),
	})
	if err != nil {
		writeError(w, h.logger, "create investment", err)
		return
	}
	response.DataWithMessage(w, http.StatusCreated, "Votre placement a été enregistré avec succès", inv)
}

package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

type FundsHandler struct {
	fundsUC *usecase.FundsUsecase
	logger  *zap.Logger
}

func NewFundsHandler(fundsUC *usecase.FundsUsecase, logger *zap.Logger) *FundsHandler {
	return &FundsHandler{fundsUC: fundsUC, logger: logger}
}

func (h *FundsHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	res, err := h.fundsUC.CreateFundsProvision(r.Context(), UserID(r.Context()), domain.FundsProvisionForm{
		SourceAccount:    f.get("sourceAccount"),
		BeneficiaryName:  f.get("beneficiaryName"),
		BeneficiaryPhone: f.get("beneficiaryPhone"),
		Amount:           f.get("amount"),
		Reason:           f.get("reason"),
		OTPCode:          f.get("otpCode", "otp"),
	})
	if err != nil {
		writeError(w, h.logger, "create funds provision", err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

func (h *FundsHandler) Limits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.fundsUC.CurrentLimits(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "load limits", err)
		return
	}
	response.Data(w, limits)
}

// RequestOTP sends a confirmation code to the user's notification feed. The
// code itself never appears in the response.
func (h *FundsHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}
	purpose := f.get("purpose")
	if purpose == "" {
		purpose = usecase.PurposeFundsProvision
	}

	// Codes are delivered as notifications, which the shared anonymous
	// identity would expose to everyone.
	ttl, err := h.fundsUC.RequestOTP(r.Context(), verifiedUserID(r.Context()), purpose)
	if err != nil {
		writeError(w, h.logger, "request otp", err)
		return
	}
	response.DataWithMessage(w, http.StatusOK, "Un code de confirmation vous a été envoyé",
		map[string]int{"expiresIn": int(ttl.Seconds())})
}

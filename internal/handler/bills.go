package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

type BillHandler struct {
	billUC *usecase.BillUsecase
	logger *zap.Logger
}

func NewBillHandler(billUC *usecase.BillUsecase, logger *zap.Logger) *BillHandler {
	return &BillHandler{billUC: billUC, logger: logger}
}

func (h *BillHandler) Providers(w http.ResponseWriter, r *http.Request) {
	providers, err := h.billUC.Providers(r.Context())
	if err != nil {
		writeError(w, h.logger, "list providers", err)
		return
	}
	response.Data(w, providers)
}

// Validate checks a bill or order number and returns the simulated record.
func (h *BillHandler) Validate(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	record, err := h.billUC.ValidateBillNumber(r.Context(), f.get("billNumber"), f.get("providerId"))
	if err != nil {
		writeError(w, h.logger, "validate bill number", err)
		return
	}
	msg := "Facture trouvée"
	if record.Type == domain.ProviderMerchant {
		msg = "Commande trouvée"
	}
	response.DataWithMessage(w, http.StatusOK, msg, record)
}

func (h *BillHandler) Pay(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, badRequest)
		return
	}

	res, err := h.billUC.PayBill(r.Context(), UserID(r.Context()), domain.PaymentForm{
		ProviderID:       f.get("providerId"),
		BillNumber:       f.get("billNumber"),
		Amount:           f.get("amount"),
		SourceAccount:    f.get("sourceAccount"),
		PaymentMethod:    f.get("paymentMethod"),
		CustomerName:     f.get("customerName"),
		MerchantLocation: f.get("merchantLocation"),
		OrderReference:   f.get("orderReference"),
	})
	if err != nil {
		writeError(w, h.logger, "pay bill", err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

func (h *BillHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.billUC.History(r.Context(), domain.LedgerFilter{
		UserID: UserID(r.Context()),
		Kind:   domain.EntryKind(r.URL.Query().Get("kind")),
		Limit:  queryInt(r, "limit", 0),
	})
	if err != nil {
		writeError(w, h.logger, "load payment history", err)
		return
	}
	response.Data(w, entries)
}

func (h *BillHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.billUC.Stats(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "load payment stats", err)
		return
	}
	response.Data(w, stats)
}

func (h *BillHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.billUC.Promotions(r.Context())
	if err != nil {
		writeError(w, h.logger, "load promotions", err)
		return
	}
	response.Data(w, promos)
}

func (h *BillHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.billUC.Overview(r.Context(), UserID(r.Context()), queryInt(r, "limit", 5))
	if err != nil {
		writeError(w, h.logger, "load payments overview", err)
		return
	}
	response.Data(w, ov)
}

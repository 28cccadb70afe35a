package v1

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"bethys-backend/internal/delivery/http/middleware"
	"bethys-backend/internal/domain"
	"bethys-backend/internal/usecase"
	"bethys-backend/pkg/logger"
	"bethys-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: uc}
}

// PlaceOrder runs the full checkout flow for the session's cart: snapshot,
// validate, submit. The handler blocks on the simulated processing with the
// request context, so a dropped connection cancels the submission.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}

	var form domain.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if _, err := h.checkoutUC.Begin(r.Context(), sessionID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCartEmpty):
			utils.WriteError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, domain.ErrSubmitInFlight):
			utils.WriteError(w, http.StatusConflict, "Order submission already in progress")
		default:
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := h.checkoutUC.Validate(sessionID, &form); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": vErr.Error(),
				"field": vErr.Field,
				"rule":  vErr.Rule,
			})
			return
		}
		utils.WriteError(w, http.StatusConflict, err.Error())
		return
	}

	confirmation, err := h.checkoutUC.Submit(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubmitInFlight):
			utils.WriteError(w, http.StatusConflict, "Order submission already in progress")
		case errors.Is(err, domain.ErrSubmissionFailed):
			logger.WithContext(r.Context()).Warn().Err(err).Msg("Order submission aborted")
			utils.WriteError(w, http.StatusServiceUnavailable, "Order submission was interrupted, please try again")
		default:
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, confirmation)
}

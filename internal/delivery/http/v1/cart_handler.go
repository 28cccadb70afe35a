package v1

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"bethys-backend/internal/delivery/http/middleware"
	"bethys-backend/internal/domain"
	"bethys-backend/internal/usecase"
	"bethys-backend/pkg/utils"
)

type CartHandler struct {
	cartUC          *usecase.CartUsecase
	maxCartQuantity int
}

func NewCartHandler(uc *usecase.CartUsecase, maxCartQuantity int) *CartHandler {
	return &CartHandler{
		cartUC:          uc,
		maxCartQuantity: maxCartQuantity,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}
	view, err := h.cartUC.View(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type addItemReq struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.ID == "" || req.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "Item id and name are required")
		return
	}
	if req.UnitPrice < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Unit price must not be negative")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}
	if req.Quantity > h.maxCartQuantity {
		utils.WriteError(w, http.StatusBadRequest, "Quantity exceeds maximum limit")
		return
	}

	view, err := h.cartUC.AddItem(r.Context(), sessionID, req.ID, req.Name, req.UnitPrice, req.ImageRef, req.Quantity)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}
	itemID := r.PathValue("itemId")
	if itemID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Item ID required")
		return
	}
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Quantity > h.maxCartQuantity {
		utils.WriteError(w, http.StatusBadRequest, "Quantity exceeds maximum limit")
		return
	}

	// Zero and below fall through to removal
	view, err := h.cartUC.SetQuantity(r.Context(), sessionID, itemID, req.Quantity)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}
	itemID := r.PathValue("itemId")
	if itemID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Item ID required")
		return
	}

	view, err := h.cartUC.RemoveItem(r.Context(), sessionID, itemID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}

	// The confirm prompt is the UI's job; by the time the request arrives
	// the decision is made.
	view, err := h.cartUC.Clear(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type applyCouponReq struct {
	Code string `json:"code"`
}

type applyCouponResp struct {
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
	Cart    *domain.CartView `json:"cart"`
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "Session required")
		return
	}
	var req applyCouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	message, view, err := h.cartUC.ApplyCoupon(r.Context(), sessionID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCouponRequired):
			utils.WriteJSON(w, http.StatusBadRequest, applyCouponResp{Error: "Please enter a coupon code", Cart: view})
		case errors.Is(err, domain.ErrCouponNotFound):
			utils.WriteJSON(w, http.StatusBadRequest, applyCouponResp{Error: "Invalid coupon code", Cart: view})
		default:
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.WriteJSON(w, http.StatusOK, applyCouponResp{Message: message, Cart: view})
}

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/order"
	"storefront/internal/storefront"
)

// addItemRequest names a catalog product by id, or carries the attribute
// bag of an add-to-cart control.
type addItemRequest struct {
	ProductID  string            `json:"product_id"`
	Attributes map[string]string `json:"attributes"`
	// Quantity defaults to 1. Values above the line maximum are clamped.
	Quantity *int `json:"quantity"`
}

func (req addItemRequest) quantity() (int, error) {
	if req.Quantity == nil {
		return 1, nil
	}
	if *req.Quantity < 1 {
		return 0, cart.ErrInvalidQuantity
	}
	return *req.Quantity, nil
}

// updateItemRequest either sets a quantity or applies the "+"/"-" controls.
type updateItemRequest struct {
	Quantity *int   `json:"quantity"`
	Action   string `json:"action"`
}

type updateItemResponse struct {
	Changed bool                `json:"changed"`
	Cart    storefront.CartView `json:"cart"`
}

type checkoutResponse struct {
	*order.Receipt
	Link string `json:"link,omitempty"`
}

var errBadAction = errors.New(`action must be "increment" or "decrement"`)

func (h *handler) cart(w http.ResponseWriter, r *http.Request) {
	v, err := h.sf.Cart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}

	qty, err := req.quantity()
	if err != nil {
		writeError(w, r, err)
		return
	}

	var line cart.Line
	switch {
	case req.ProductID != "":
		line, err = h.sf.AddByID(r.Context(), req.ProductID, qty)
	case len(req.Attributes) > 0:
		line, err = h.sf.AddToCart(r.Context(), req.Attributes, strconv.Itoa(qty))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "product_id or attributes required"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (h *handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decode(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	var (
		changed bool
		err     error
	)
	switch {
	case req.Quantity != nil:
		changed, err = h.sf.SetQuantity(r.Context(), id, *req.Quantity)
	case req.Action == "increment":
		changed, err = h.sf.Increment(r.Context(), id)
	case req.Action == "decrement":
		changed, err = h.sf.Decrement(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errBadAction.Error()})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.sf.Cart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updateItemResponse{Changed: changed, Cart: v})
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	removed, err := h.sf.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !removed {
		writeError(w, r, cart.ErrCartItemNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.sf.ClearCart(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.sf.Checkout(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := checkoutResponse{Receipt: receipt}
	if h.phone != "" {
		resp.Link = order.ChatLink(h.phone, receipt.Message)
	}
	writeJSON(w, http.StatusOK, resp)
}

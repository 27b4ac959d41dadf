package handlers

import (
	"errors"
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/auth"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/services"
	"time"
)

type OrderHandler struct {
	Orders    *services.OrderService
	Estimator ports.RouteEstimator
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list orders", err)
		return
	}

	res := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, dto.NewOrderResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.OrderPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	email := ""
	if c, ok := auth.ClaimsFrom(r.Context()); ok {
		email = c.Email
	}

	o, err := h.Orders.Create(r.Context(), req, email)
	if err != nil {
		writeServiceError(w, r, "create order", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.CreateOrderResponse{
		Message: "order created",
		OrderID: o.ID,
		Order:   dto.NewOrderResponse(o),
	})
}

// Get returns one order. Customers may only read their own orders.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}

	c, _ := auth.ClaimsFrom(r.Context())
	if c == nil || (c.Role != auth.RoleAdmin && c.Email != o.CustomerEmail) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewOrderResponse(o))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status))
	if errors.Is(err, services.ErrInvalidStatus) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, "update order", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.OrderMessageResponse{Message: "order status updated", Order: dto.NewOrderResponse(o)})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "delete order", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.OrderMessageResponse{Message: "order deleted", Order: dto.NewOrderResponse(o)})
}

func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Orders.ExportCSV(r.Context())
	if err != nil {
		writeServiceError(w, r, "export orders", err)
		return
	}

	name := "orders_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// DeliveryRun plans today's courier trip over pending in-range orders.
func (h *OrderHandler) DeliveryRun(w http.ResponseWriter, r *http.Request) {
	returnToStore := r.URL.Query().Get("return") != "false"

	run, err := h.Orders.PendingRun(r.Context(), h.Estimator, returnToStore)
	if err != nil {
		writeServiceError(w, r, "plan delivery run", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewDeliveryRunResponse(run))
}

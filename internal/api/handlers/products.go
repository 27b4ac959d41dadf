package handlers

import (
	"net/http"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
}

func toInput(req dto.ProductRequest) services.ProductInput {
	return services.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Unit:        req.Unit,
		Description: req.Description,
		Image:       req.Image,
		Stock:       req.Stock,
		Category:    req.Category,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list products", err)
		return
	}

	res := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, dto.NewProductResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get product", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewProductResponse(p))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Products.Create(r.Context(), toInput(req))
	if err != nil {
		writeServiceError(w, r, "create product", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewProductResponse(p))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Products.Update(r.Context(), r.PathValue("id"), toInput(req))
	if err != nil {
		writeServiceError(w, r, "update product", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewProductResponse(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "delete product", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewProductResponse(p))
}

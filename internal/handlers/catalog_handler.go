// File: internal/handlers/catalog_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/repository/content"
)

// CatalogHandler serves the puja-item catalog: products and categories.
type CatalogHandler struct {
	Products   content.ProductRepository
	Categories content.CategoryRepository
}

func NewCatalogHandler(products content.ProductRepository, categories content.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{Products: products, Categories: categories}
}

// ListProducts handles GET /products?category=N.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	var categoryID *uint
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		cid := uint(id)
		categoryID = &cid
	}

	products, total, err := h.Products.List(r.Context(), categoryID, true, limit, offset)
	if err != nil {
		log.Printf("[CatalogHandler] ListProducts failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: products, Total: total})
}

// GetProduct handles GET /products/{slug}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	product, err := h.Products.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		log.Printf("[CatalogHandler] GetProduct failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

type productRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  *uint  `json:"category_id"`
	ImageURL    string `json:"image_url"`
	Active      bool   `json:"active"`
}

// CreateProduct handles POST /admin/products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	}
	created, err := h.Products.Create(r.Context(), product)
	if err != nil {
		log.Printf("[CatalogHandler] CreateProduct failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /admin/products/{id}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.Products.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product.Name = req.Name
	product.Slug = req.Slug
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	product.ImageURL = req.ImageURL
	product.Active = req.Active

	if err := h.Products.Update(r.Context(), product); err != nil {
		log.Printf("[CatalogHandler] UpdateProduct failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/{id}.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.Products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		log.Printf("[CatalogHandler] DeleteProduct failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		log.Printf("[CatalogHandler] ListCategories failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

// CreateCategory handles POST /admin/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := &domain.Category{Name: req.Name, Slug: req.Slug, ParentID: req.ParentID}
	created, err := h.Categories.Create(r.Context(), category)
	if err != nil {
		log.Printf("[CatalogHandler] CreateCategory failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PUT /admin/categories/{id}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.Categories.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.ParentID = req.ParentID

	if err := h.Categories.Update(r.Context(), category); err != nil {
		log.Printf("[CatalogHandler] UpdateCategory failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /admin/categories/{id}.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.Categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		log.Printf("[CatalogHandler] DeleteCategory failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete category")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

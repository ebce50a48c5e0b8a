// File: internal/handlers/enquiry_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/repository/content"
)

// EnquiryHandler serves customer enquiries and delivery riders.
type EnquiryHandler struct {
	Enquiries content.EnquiryRepository
	Riders    content.RiderRepository
}

func NewEnquiryHandler(enquiries content.EnquiryRepository, riders content.RiderRepository) *EnquiryHandler {
	return &EnquiryHandler{Enquiries: enquiries, Riders: riders}
}

type enquiryRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create handles POST /enquiries. Public, no auth.
func (h *EnquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enquiry := &domain.Enquiry{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  domain.EnquiryOpen,
	}
	created, err := h.Enquiries.Create(r.Context(), enquiry)
	if err != nil {
		log.Printf("[EnquiryHandler] Create failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// List handles GET /admin/enquiries?status=open.
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	status := r.URL.Query().Get("status")

	enquiries, total, err := h.Enquiries.List(r.Context(), status, limit, offset)
	if err != nil {
		log.Printf("[EnquiryHandler] List failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list enquiries")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: enquiries, Total: total})
}

// Get handles GET /admin/enquiries/{id}.
func (h *EnquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid enquiry id")
		return
	}

	enquiry, err := h.Enquiries.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrEnquiryNotFound) {
			respondError(w, http.StatusNotFound, "enquiry not found")
			return
		}
		log.Printf("[EnquiryHandler] Get failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load enquiry")
		return
	}
	respondJSON(w, http.StatusOK, enquiry)
}

type enquiryStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/enquiries/{id}.
func (h *EnquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid enquiry id")
		return
	}

	var req enquiryStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Enquiries.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, content.ErrEnquiryNotFound) {
			respondError(w, http.StatusNotFound, "enquiry not found")
			return
		}
		log.Printf("[EnquiryHandler] UpdateStatus failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ListRiders handles GET /riders. Public callers see active riders.
func (h *EnquiryHandler) ListRiders(w http.ResponseWriter, r *http.Request) {
	riders, err := h.Riders.List(r.Context(), true)
	if err != nil {
		log.Printf("[EnquiryHandler] ListRiders failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list riders")
		return
	}
	respondJSON(w, http.StatusOK, riders)
}

type riderRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	VehicleNumber string `json:"vehicle_number"`
	CurrentArea   string `json:"current_area"`
	Active        bool   `json:"active"`
}

// CreateRider handles POST /admin/riders.
func (h *EnquiryHandler) CreateRider(w http.ResponseWriter, r *http.Request) {
	var req riderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rider := &domain.Rider{
		Name:          req.Name,
		Phone:         req.Phone,
		VehicleNumber: req.VehicleNumber,
		CurrentArea:   req.CurrentArea,
		Active:        req.Active,
	}
	created, err := h.Riders.Create(r.Context(), rider)
	if err != nil {
		log.Printf("[EnquiryHandler] CreateRider failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateRider handles PUT /admin/riders/{id}.
func (h *EnquiryHandler) UpdateRider(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rider id")
		return
	}

	rider, err := h.Riders.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "rider not found")
		return
	}

	var req riderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rider.Name = req.Name
	rider.Phone = req.Phone
	rider.VehicleNumber = req.VehicleNumber
	rider.CurrentArea = req.CurrentArea
	rider.Active = req.Active

	if err := h.Riders.Update(r.Context(), rider); err != nil {
		log.Printf("[EnquiryHandler] UpdateRider failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rider)
}

// DeleteRider handles DELETE /admin/riders/{id}.
func (h *EnquiryHandler) DeleteRider(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rider id")
		return
	}

	if err := h.Riders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrRiderNotFound) {
			respondError(w, http.StatusNotFound, "rider not found")
			return
		}
		log.Printf("[EnquiryHandler] DeleteRider failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete rider")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

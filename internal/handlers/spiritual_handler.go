// File: internal/handlers/spiritual_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/repository/content"
)

// SpiritualHandler serves the devotional content: Gita verses, mantras
// and the daily Panchangam almanac.
type SpiritualHandler struct {
	Spiritual content.SpiritualRepository
}

func NewSpiritualHandler(spiritual content.SpiritualRepository) *SpiritualHandler {
	return &SpiritualHandler{Spiritual: spiritual}
}

// ListChapter handles GET /gita/{chapter}.
func (h *SpiritualHandler) ListChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(mux.Vars(r)["chapter"])
	if err != nil || chapter < 1 {
		respondError(w, http.StatusBadRequest, "invalid chapter")
		return
	}

	verses, err := h.Spiritual.ListChapter(r.Context(), chapter)
	if err != nil {
		log.Printf("[SpiritualHandler] ListChapter failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load chapter")
		return
	}
	respondJSON(w, http.StatusOK, verses)
}

// GetVerse handles GET /gita/{chapter}/{verse}.
func (h *SpiritualHandler) GetVerse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chapter, err1 := strconv.Atoi(vars["chapter"])
	verse, err2 := strconv.Atoi(vars["verse"])
	if err1 != nil || err2 != nil || chapter < 1 || verse < 1 {
		respondError(w, http.StatusBadRequest, "invalid chapter or verse")
		return
	}

	v, err := h.Spiritual.FindVerse(r.Context(), chapter, verse)
	if err != nil {
		if errors.Is(err, content.ErrVerseNotFound) {
			respondError(w, http.StatusNotFound, "verse not found")
			return
		}
		log.Printf("[SpiritualHandler] GetVerse failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load verse")
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// CreateVerse handles POST /admin/gita.
func (h *SpiritualHandler) CreateVerse(w http.ResponseWriter, r *http.Request) {
	var verse domain.GitaVerse
	if err := decodeJSON(r, &verse); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Spiritual.CreateVerse(r.Context(), &verse)
	if err != nil {
		log.Printf("[SpiritualHandler] CreateVerse failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListMantras handles GET /mantras?deity=shiva.
func (h *SpiritualHandler) ListMantras(w http.ResponseWriter, r *http.Request) {
	mantras, err := h.Spiritual.ListMantras(r.Context(), r.URL.Query().Get("deity"))
	if err != nil {
		log.Printf("[SpiritualHandler] ListMantras failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list mantras")
		return
	}
	respondJSON(w, http.StatusOK, mantras)
}

// GetMantra handles GET /mantras/{id}.
func (h *SpiritualHandler) GetMantra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mantra id")
		return
	}

	mantra, err := h.Spiritual.FindMantraByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrMantraNotFound) {
			respondError(w, http.StatusNotFound, "mantra not found")
			return
		}
		log.Printf("[SpiritualHandler] GetMantra failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load mantra")
		return
	}
	respondJSON(w, http.StatusOK, mantra)
}

// CreateMantra handles POST /admin/mantras.
func (h *SpiritualHandler) CreateMantra(w http.ResponseWriter, r *http.Request) {
	var mantra domain.Mantra
	if err := decodeJSON(r, &mantra); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Spiritual.CreateMantra(r.Context(), &mantra)
	if err != nil {
		log.Printf("[SpiritualHandler] CreateMantra failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// PanchangamToday handles GET /panchangam/today.
func (h *SpiritualHandler) PanchangamToday(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Spiritual.FindPanchangamByDate(r.Context(), time.Now())
	if err != nil {
		if errors.Is(err, content.ErrPanchangamNotFound) {
			respondError(w, http.StatusNotFound, "no panchangam entry for today")
			return
		}
		log.Printf("[SpiritualHandler] PanchangamToday failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load panchangam")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// PanchangamByDate handles GET /panchangam/{date} with date as 2006-01-02.
func (h *SpiritualHandler) PanchangamByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := h.Spiritual.FindPanchangamByDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, content.ErrPanchangamNotFound) {
			respondError(w, http.StatusNotFound, "no panchangam entry for that date")
			return
		}
		log.Printf("[SpiritualHandler] PanchangamByDate failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load panchangam")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// UpsertPanchangam handles PUT /admin/panchangam.
func (h *SpiritualHandler) UpsertPanchangam(w http.ResponseWriter, r *http.Request) {
	var entry domain.PanchangamEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.Spiritual.UpsertPanchangam(r.Context(), &entry)
	if err != nil {
		log.Printf("[SpiritualHandler] UpsertPanchangam failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

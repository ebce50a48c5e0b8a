// File: internal/handlers/blog_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/repository/content"
	"github.com/bookmyseva/backend/internal/services/markdown"
)

// BlogHandler serves blog posts. Bodies are stored as markdown; readers
// can ask for rendered HTML with ?render=html.
type BlogHandler struct {
	Blogs    content.BlogRepository
	Renderer *markdown.Renderer
}

func NewBlogHandler(blogs content.BlogRepository, renderer *markdown.Renderer) *BlogHandler {
	return &BlogHandler{Blogs: blogs, Renderer: renderer}
}

// List handles GET /blogs. Public callers see published posts only.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	blogs, total, err := h.Blogs.List(r.Context(), true, limit, offset)
	if err != nil {
		log.Printf("[BlogHandler] List failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list blogs")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: blogs, Total: total})
}

// ListAll handles GET /admin/blogs, drafts included.
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	blogs, total, err := h.Blogs.List(r.Context(), false, limit, offset)
	if err != nil {
		log.Printf("[BlogHandler] ListAll failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not list blogs")
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: blogs, Total: total})
}

// Get handles GET /blogs/{slug}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	blog, err := h.Blogs.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrBlogNotFound) {
			respondError(w, http.StatusNotFound, "blog not found")
			return
		}
		log.Printf("[BlogHandler] Get failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load blog")
		return
	}

	if r.URL.Query().Get("render") == "html" {
		html, err := h.Renderer.Render(blog.Body)
		if err != nil {
			log.Printf("[BlogHandler] Render failed for blog %d: %v", blog.ID, err)
			respondError(w, http.StatusInternalServerError, "could not render blog")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"blog": blog, "html": html})
		return
	}

	respondJSON(w, http.StatusOK, blog)
}

type blogRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Body       string `json:"body"`
	Author     string `json:"author"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published"`
}

// Create handles POST /admin/blogs.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	blog := &domain.Blog{
		Title:      req.Title,
		Slug:       req.Slug,
		Body:       req.Body,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	}
	if blog.Published {
		now := time.Now()
		blog.PublishedAt = &now
	}

	created, err := h.Blogs.Create(r.Context(), blog)
	if err != nil {
		log.Printf("[BlogHandler] Create failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /admin/blogs/{id}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	blog, err := h.Blogs.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "blog not found")
		return
	}

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wasPublished := blog.Published
	blog.Title = req.Title
	blog.Slug = req.Slug
	blog.Body = req.Body
	blog.Author = req.Author
	blog.CoverImage = req.CoverImage
	blog.Published = req.Published
	if blog.Published && !wasPublished {
		now := time.Now()
		blog.PublishedAt = &now
	}

	if err := h.Blogs.Update(r.Context(), blog); err != nil {
		log.Printf("[BlogHandler] Update failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, blog)
}

// Delete handles DELETE /admin/blogs/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	if err := h.Blogs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrBlogNotFound) {
			respondError(w, http.StatusNotFound, "blog not found")
			return
		}
		log.Printf("[BlogHandler] Delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not delete blog")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

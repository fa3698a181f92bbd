package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/store"
	"inkwell/internal/upload"
)

// maxMultipartMemory caps the in-memory portion of multipart parsing;
// larger file parts spill to temp files.
const maxMultipartMemory = 8 << 20

// Admin groups the admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer *render.Renderer
	contents *store.ContentStore
	uploads  *upload.Store
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, contents *store.ContentStore, uploads *upload.Store) *Admin {
	return &Admin{
		renderer: renderer,
		contents: contents,
		uploads:  uploads,
	}
}

// Dashboard renders the admin dashboard: the content list (drafts
// included), the create form, and optionally the edit form for one item.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	var flashes []render.Flash
	if r.URL.Query().Get("forbidden") == "1" {
		flashes = append(flashes, render.Flash{
			Type:    "warning",
			Message: "You don't have permission to do that.",
		})
	}

	var editing *models.ContentItem
	if raw := r.URL.Query().Get("edit"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			editing, err = a.contents.FindByID(id)
			if err != nil {
				slog.Error("load item for edit failed", "id", id, "error", err)
			}
		}
		if editing == nil {
			flashes = append(flashes, render.Flash{
				Type:    "error",
				Message: "Content item not found.",
			})
		}
	}

	a.renderDashboard(w, r, flashes, editing)
}

// ContentCreate handles the new-content form. Any authenticated admin may
// create items; the session's account is recorded as the creator.
func (a *Admin) ContentCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: "Could not read the submitted form."}}, nil)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")
	if msg := validateContent(title, body); msg != "" {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: msg}}, nil)
		return
	}

	image, errMsg := a.storeImage(r)
	if errMsg != "" {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: errMsg}}, nil)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	item := &models.ContentItem{
		Title:         title,
		Body:          body,
		ImageFilename: image,
		IsPublished:   r.FormValue("is_published") == "1",
		CreatorID:     &sess.AdminID,
	}

	created, err := a.contents.Create(item)
	if err != nil {
		slog.Error("content create failed", "error", err)
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: "An unexpected error occurred."}}, nil)
		return
	}

	slog.Info("content created", "id", created.ID, "title", created.Title, "by", sess.Username)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// ContentUpdate handles the edit form for an existing item. Title, body,
// image and publish state are editable; the creator and creation time
// never change.
func (a *Admin) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	item, ok := a.loadItem(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: "Could not read the submitted form."}}, item)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")
	if msg := validateContent(title, body); msg != "" {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: msg}}, item)
		return
	}

	image, errMsg := a.storeImage(r)
	if errMsg != "" {
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: errMsg}}, item)
		return
	}

	switch {
	case image != nil:
		// A new upload replaces the previous image. The old file stays on
		// disk; nothing else references stored files by name.
		item.ImageFilename = image
	case r.FormValue("current_image") == "":
		item.ImageFilename = nil
	}

	item.Title = title
	item.Body = body
	item.IsPublished = r.FormValue("is_published") == "1"

	if err := a.contents.Update(item); err != nil {
		slog.Error("content update failed", "id", item.ID, "error", err)
		a.renderDashboard(w, r, []render.Flash{{Type: "error", Message: "An unexpected error occurred."}}, item)
		return
	}

	slog.Info("content updated", "id", item.ID, "title", item.Title)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// ContentDelete removes an item. The row goes away; an uploaded image
// file, if any, is left in place.
func (a *Admin) ContentDelete(w http.ResponseWriter, r *http.Request) {
	item, ok := a.loadItem(w, r)
	if !ok {
		return
	}

	if err := a.contents.Delete(item.ID); err != nil {
		slog.Error("content delete failed", "id", item.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("content deleted", "id", item.ID, "title", item.Title)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// loadItem resolves the {id} route parameter to a content item, writing a
// 404 when the parameter is malformed or the item doesn't exist.
func (a *Admin) loadItem(w http.ResponseWriter, r *http.Request) (*models.ContentItem, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	item, err := a.contents.FindByID(id)
	if err != nil {
		slog.Error("content lookup failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if item == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

// storeImage saves an optional uploaded image and returns its stored
// filename, or a user-facing error message when the upload is rejected.
// A missing file part is not an error.
func (a *Admin) storeImage(r *http.Request) (*string, string) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ""
	}
	if err != nil {
		return nil, "Could not read the uploaded file."
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, ""
	}

	stored, err := a.uploads.Save(file, header.Filename)
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		return nil, "That file type is not allowed. Use png, jpg, jpeg, gif or webp."
	case errors.Is(err, upload.ErrTooLarge):
		return nil, "The image is too large (max 10 MB)."
	case err != nil:
		slog.Error("upload store failed", "error", err)
		return nil, "Could not store the uploaded file."
	}

	// Thumbnail generation is best-effort; the original always serves.
	if _, err := a.uploads.Thumbnail(stored); err != nil {
		slog.Warn("thumbnail generation failed", "file", stored, "error", err)
	}

	return &stored, ""
}

// renderDashboard renders the dashboard template with fresh counts and
// the full item list.
func (a *Admin) renderDashboard(w http.ResponseWriter, r *http.Request, flashes []render.Flash, editing *models.ContentItem) {
	items, err := a.contents.List(true)
	if err != nil {
		slog.Error("list content failed", "error", err)
	}
	total, err := a.contents.Count()
	if err != nil {
		slog.Error("count content failed", "error", err)
	}
	published, err := a.contents.CountPublished()
	if err != nil {
		slog.Error("count published content failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Flashes: flashes,
		Data: map[string]any{
			"Items":          items,
			"Editing":        editing,
			"ContentCount":   total,
			"PublishedCount": published,
		},
	})
}

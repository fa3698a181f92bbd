package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/markdown"
	"inkwell/internal/render"
	"inkwell/internal/store"
	"inkwell/internal/upload"
)

// Public groups the handlers for the public-facing site.
type Public struct {
	renderer *render.Renderer
	contents *store.ContentStore
	uploads  *upload.Store
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, contents *store.ContentStore, uploads *upload.Store) *Public {
	return &Public{
		renderer: renderer,
		contents: contents,
		uploads:  uploads,
	}
}

// publicItem is the view model for one published item on the home page.
type publicItem struct {
	Title       string
	BodyHTML    string
	Image       string
	CreatedAt   time.Time
	CreatorName string
}

// Home renders the public listing of published items, newest first.
// Bodies are Markdown rendered to HTML.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	items, err := p.contents.List(false)
	if err != nil {
		slog.Error("list published content failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]publicItem, 0, len(items))
	for _, item := range items {
		html, err := markdown.ToHTML(item.Body)
		if err != nil {
			slog.Error("markdown render failed", "id", item.ID, "error", err)
			continue
		}

		v := publicItem{
			Title:       item.Title,
			BodyHTML:    html,
			CreatedAt:   item.CreatedAt,
			CreatorName: item.CreatorName,
		}
		if item.HasImage() {
			v.Image = *item.ImageFilename
		}
		views = append(views, v)
	}

	p.renderer.Page(w, r, "home", &render.PageData{
		Title: "Home",
		Data:  map[string]any{"Items": views},
	})
}

// Uploads serves stored image files by filename. Names that don't resolve
// to a file inside the upload directory get a 404.
func (p *Public) Uploads(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := p.uploads.Path(filename)
	if err != nil || !p.uploads.Exists(filename) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, path)
}

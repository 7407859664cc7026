// Package ui provides a small HTTP surface for inspecting and driving the
// checkpoint subsystem: list tags with a preview of each tagged message,
// create tags, and run undo operations. It is meant to be mounted into a
// host application's mux, typically behind its auth.
package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/youssefsiam38/rewindpg"
	"github.com/youssefsiam38/rewindpg/types"
)

// tagView is a tag prepared for display.
type tagView struct {
	Name      string        `json:"name"`
	Position  int           `json:"position"`
	Special   bool          `json:"special"`
	CreatedAt time.Time     `json:"created_at"`
	Preview   template.HTML `json:"preview"`
}

// listView is the data behind the tag list page and the JSON listing.
type listView struct {
	Tags    []tagView             `json:"tags"`
	Evicted []rewindpg.EvictedTag `json:"evicted,omitempty"`
	Length  int                   `json:"length"`
}

var listTemplate = template.Must(template.New("tags").Parse(`<!DOCTYPE html>
<html>
<head><title>Conversation tags</title></head>
<body>
<h1>Conversation tags</h1>
<p>{{.Length}} messages in the log.</p>
<table border="1" cellpadding="4">
<tr><th>Name</th><th>Position</th><th>Created</th><th>Preview</th></tr>
{{range .Tags}}
<tr>
<td>{{.Name}}{{if .Special}} *{{end}}</td>
<td>{{.Position}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
<td>{{.Preview}}</td>
</tr>
{{end}}
</table>
{{if .Evicted}}
<h2>Evicted</h2>
<ul>
{{range .Evicted}}<li>{{.Name}}: {{.Reason}}</li>{{end}}
</ul>
{{end}}
</body>
</html>
`))

// Handler serves the tag UI for one checkpoint client.
type Handler struct {
	client *rewindpg.Client
	config *Config
	mux    *http.ServeMux
}

// NewHandler creates the UI handler.
//
// Usage:
//
//	http.Handle("/tags/", http.StripPrefix("/tags", ui.NewHandler(client, nil)))
func NewHandler(client *rewindpg.Client, cfg *Config) *Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.applyDefaults()
	}

	h := &Handler{
		client: client,
		config: cfg,
		mux:    http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /tags", h.handleListHTML)
	h.mux.HandleFunc("GET /api/tags", h.handleListJSON)
	h.mux.HandleFunc("POST /tags", h.handleCreate)
	h.mux.HandleFunc("POST /undo", h.handleUndo)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// buildListing validates tags, evicting stale ones, and prepares the view.
func (h *Handler) buildListing(r *http.Request) (*listView, error) {
	ctx := r.Context()

	listing, err := h.client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := h.client.Messages(ctx)
	if err != nil {
		return nil, err
	}

	view := &listView{
		Evicted: listing.Evicted,
		Length:  len(messages),
	}
	for _, tag := range listing.Tags {
		var tagged *types.Message
		if tag.Position() < len(messages) {
			tagged = messages[tag.Position()]
		}
		_, special := tag.(rewindpg.SessionStartTag)
		view.Tags = append(view.Tags, tagView{
			Name:      tag.Name(),
			Position:  tag.Position(),
			Special:   special,
			CreatedAt: tag.CreatedAt(),
			Preview:   renderPreview(tagged, h.config.PreviewLength),
		})
	}
	return view, nil
}

func (h *Handler) handleListHTML(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildListing(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listTemplate.Execute(w, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) handleListJSON(w http.ResponseWriter, r *http.Request) {
	view, err := h.buildListing(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if h.config.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return
	}

	var opts []rewindpg.TagOption
	if name := r.FormValue("name"); name != "" {
		opts = append(opts, rewindpg.WithName(name))
	}
	if posStr := r.FormValue("position"); posStr != "" {
		pos, err := strconv.Atoi(posStr)
		if err != nil {
			http.Error(w, "invalid position", http.StatusBadRequest)
			return
		}
		opts = append(opts, rewindpg.WithPosition(pos))
	}

	name, err := h.client.CreateTag(r.Context(), opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	if h.config.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return
	}

	arg := r.FormValue("target")
	if arg == "" {
		http.Error(w, "target is required", http.StatusBadRequest)
		return
	}

	result, err := h.client.Undo(r.Context(), arg)
	if err != nil {
		status := http.StatusBadRequest
		if rewindpg.IsStale(err) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

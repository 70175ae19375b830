package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/render"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

const (
	maxRequestSize = 1 << 20 // 1MB of scene JSON
	maxDimension   = 4096
)

type Handler struct {
	engine *engine.Engine
}

func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

type shapeSpec struct {
	Kind      scene.Kind      `json:"kind"`
	Params    scene.Params    `json:"params"`
	Transform scene.Transform `json:"transform"`
}

type exportRequest struct {
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Grid     bool        `json:"grid"`
	GridStep float64     `json:"gridStep"`
	Name     string      `json:"name"`
	Shapes   []shapeSpec `json:"shapes"`
}

// ExportPNG renders a posted scene to a PNG download. The endpoint is
// stateless; nothing about the scene is kept after the response.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}
	if req.Width > maxDimension || req.Height > maxDimension {
		http.Error(w, fmt.Sprintf("surface too large: max %dx%d", maxDimension, maxDimension), http.StatusBadRequest)
		return
	}
	if len(req.Shapes) == 0 {
		http.Error(w, "no shapes to render", http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		name = "scene"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	store := scene.NewStore(h.engine)
	for _, spec := range req.Shapes {
		if _, err := store.Add(spec.Kind, spec.Params, spec.Transform); err != nil {
			if errors.Is(err, scene.ErrUnknownKind) {
				http.Error(w, fmt.Sprintf("unknown shape kind: %s", spec.Kind), http.StatusBadRequest)
				return
			}
			slog.Error("build export scene", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	slog.Info("export started", "width", req.Width, "height", req.Height, "shapes", len(req.Shapes))

	renderer := render.NewRenderer(req.Width, req.Height)
	renderer.Redraw(render.Compose(store, ""), render.Options{Grid: req.Grid, GridStep: req.GridStep})

	var buf bytes.Buffer
	if err := renderer.EncodePNG(&buf); err != nil {
		slog.Error("encode png", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "size", buf.Len())
}

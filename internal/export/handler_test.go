package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/geom"
	"github.com/shapepad/shapepad/engine-go/internal/scene"
)

func newTestHandler() *Handler {
	eng := engine.New(engine.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewHandler(eng)
}

func postScene(t *testing.T, h *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/png", bytes.NewReader(data))
	h.ExportPNG(rec, req)
	return rec
}

func TestExportPNG(t *testing.T) {
	h := newTestHandler()

	rec := postScene(t, h, exportRequest{
		Width:  320,
		Height: 200,
		Grid:   true,
		Shapes: []shapeSpec{
			{
				Kind:      scene.KindSquare,
				Params:    scene.Params{Size: 50},
				Transform: scene.Transform{Translate: geom.Point{X: 20, Y: 20}, Scale: 1},
			},
			{
				Kind:      scene.KindCircle,
				Params:    scene.Params{Radius: 30},
				Transform: scene.Transform{Translate: geom.Point{X: 200, Y: 100}, Scale: 1},
			},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="scene.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestExportPNGSanitizesFilename(t *testing.T) {
	h := newTestHandler()

	rec := postScene(t, h, exportRequest{
		Width:  64,
		Height: 64,
		Name:   "my scene!",
		Shapes: []shapeSpec{
			{Kind: scene.KindSquare, Params: scene.Params{Size: 10}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="my-scene-.png"`, rec.Header().Get("Content-Disposition"))
}

func TestExportPNGValidation(t *testing.T) {
	h := newTestHandler()
	square := []shapeSpec{{Kind: scene.KindSquare, Params: scene.Params{Size: 10}}}

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/export/png", strings.NewReader("{not json"))
		h.ExportPNG(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing dimensions", func(t *testing.T) {
		rec := postScene(t, h, exportRequest{Shapes: square})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized surface", func(t *testing.T) {
		rec := postScene(t, h, exportRequest{Width: 5000, Height: 100, Shapes: square})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "surface too large")
	})

	t.Run("empty scene", func(t *testing.T) {
		rec := postScene(t, h, exportRequest{Width: 100, Height: 100})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := postScene(t, h, exportRequest{
			Width:  100,
			Height: 100,
			Shapes: []shapeSpec{{Kind: "hexagon"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown shape kind")
	})
}

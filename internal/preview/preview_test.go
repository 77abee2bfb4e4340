package preview

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRasterizer_FirstPagePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "letter.pdf")

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "B", 30)
	pdf.AddPage()
	pdf.Text(40, 100, "Dear Jane Doe,")
	require.NoError(t, pdf.OutputFileAndClose(path))

	r := NewRasterizer(72, zap.NewNop())

	t.Run("renders page one", func(t *testing.T) {
		data, err := r.FirstPagePNG(path)

		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		// A4 at 72 dpi
		assert.InDelta(t, 595, img.Bounds().Dx(), 2)
		assert.InDelta(t, 842, img.Bounds().Dy(), 2)
	})

	t.Run("page out of range", func(t *testing.T) {
		_, err := r.PagePNG(path, 3)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.FirstPagePNG(filepath.Join(dir, "absent.pdf"))
		assert.Error(t, err)
	})
}

func TestNewRasterizer_DefaultDPI(t *testing.T) {
	r := NewRasterizer(0, zap.NewNop())
	assert.Equal(t, float64(DefaultDPI), r.dpi)
}

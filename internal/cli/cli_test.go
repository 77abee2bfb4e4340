package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRootHasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	names := make([]string, len(commands))
	for i, cmd := range commands {
		names[i] = cmd.Name()
	}

	assert.Contains(t, names, "generate")
	assert.Contains(t, names, "version")
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123")
	defer SetVersionInfo("dev", "none")

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "offerletters 1.2.3 (commit: abc123)\n", out.String())
}

func TestGenerate_RequiresInputs(t *testing.T) {
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"generate", "--template", "bg.png"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"excel"`)
}

func TestGenerate_RunsBatch(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
storage:
  uploads_dir: %q
  letters_dir: %q
  output_dir: %q
identifier:
  registry_path: ""
batch:
  workers: 2
`, filepath.Join(dir, "uploads"), filepath.Join(dir, "letters"), filepath.Join(dir, "out"))), 0644))

	excelPath := filepath.Join(dir, "interns.xlsx")
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name", "Designation", "Start Date", "End Date", "Stipend"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]interface{}{"Jane Doe", "Backend Intern", "2025-02-01", "2025-04-30", 15000}))
	require.NoError(t, book.SaveAs(excelPath))
	require.NoError(t, book.Close())

	templatePath := filepath.Join(dir, "template.png")
	img := image.NewRGBA(image.Rect(0, 0, 1240, 1754))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	f, err := os.Create(templatePath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"generate", "--config", configPath, "--excel", excelPath, "--template", templatePath})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), ": 1 letters")
	assert.Contains(t, out.String(), "Jane_Doe_Offer_Letter.pdf")
	assert.FileExists(t, filepath.Join(dir, "letters", "Jane_Doe_Offer_Letter.pdf"))
	assert.FileExists(t, filepath.Join(dir, "out", "updated_intern_data_with_unique_ids.xlsx"))
}

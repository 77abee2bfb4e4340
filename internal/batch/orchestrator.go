// Package batch turns a recipient spreadsheet into offer letters and a result table.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/garyjia/offer-letters/internal/identifier"
	"github.com/garyjia/offer-letters/internal/letter"
	"github.com/garyjia/offer-letters/internal/metrics"
	"github.com/garyjia/offer-letters/internal/models"
	"github.com/garyjia/offer-letters/internal/observability"
	"github.com/garyjia/offer-letters/internal/pdfops"
	"github.com/garyjia/offer-letters/internal/render"
	"github.com/garyjia/offer-letters/internal/storage"
	"github.com/garyjia/offer-letters/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LetterSuffix ends every letter file name
const LetterSuffix = "_Offer_Letter.pdf"

// confirmationDays is the number of calendar days a recipient has to accept the offer
const confirmationDays = 7

// Config holds orchestrator configuration
type Config struct {
	LettersDir     string
	OutputDir      string
	OutputFileName string
	Workers        int
	MergeLetters   bool
}

// Input names the three uploaded files of one batch. SignaturePath may be empty.
type Input struct {
	SpreadsheetPath string
	BackgroundPath  string
	SignaturePath   string
}

// Orchestrator runs batches one at a time
type Orchestrator struct {
	mu       sync.Mutex
	reader   SheetReader
	writer   TableWriter
	renderer LetterRenderer
	ids      *identifier.Generator
	folders  *storage.FolderManager
	cfg      Config
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	cfg Config,
	reader SheetReader,
	writer TableWriter,
	renderer LetterRenderer,
	ids *identifier.Generator,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		reader:   reader,
		writer:   writer,
		renderer: renderer,
		ids:      ids,
		folders:  storage.NewFolderManager(cfg.LettersDir, logger),
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

// OutputPath is the fixed location of the result table
func (o *Orchestrator) OutputPath() string {
	return filepath.Join(o.cfg.OutputDir, o.cfg.OutputFileName)
}

// LettersDir is the directory letters are promoted into
func (o *Orchestrator) LettersDir() string {
	return o.cfg.LettersDir
}

// LetterFileName returns the file name of a recipient's letter
func LetterFileName(name string, rowNumber int) string {
	stem := utils.SafeFileStem(name)
	if stem == "" {
		stem = fmt.Sprintf("row_%d", rowNumber)
	}
	return stem + LetterSuffix
}

// Run generates one letter per recipient and the result table.
// Either every letter and the table are written or nothing is.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*models.BatchResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	batchID := o.newID()
	started := o.now()
	logger := o.logger.With(zap.String("batch_id", batchID))

	logger.Info("Starting batch",
		zap.String("spreadsheet", in.SpreadsheetPath),
		zap.String("background", in.BackgroundPath),
		zap.Bool("signature", in.SignaturePath != ""))

	result, err := o.run(ctx, batchID, started, in, logger)
	elapsed := time.Since(started)
	if err != nil {
		metrics.ObserveBatch("failure", elapsed)
		observability.CaptureBatchErr(batchID, err)
		logger.Error("Batch failed", zap.Error(err), zap.Duration("duration", elapsed))
		return nil, err
	}

	result.Duration = elapsed
	metrics.ObserveBatch("success", elapsed)
	logger.Info("Batch completed",
		zap.Int("letters", len(result.Letters)),
		zap.String("excel_file", result.OutputTable),
		zap.Duration("duration", elapsed))

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, batchID string, today time.Time, in Input, logger *zap.Logger) (*models.BatchResult, error) {
	// Step 1: Parse the spreadsheet
	sheet, err := o.reader.Read(in.SpreadsheetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	if len(sheet.Recipients) == 0 {
		logger.Warn("Spreadsheet has no recipients, writing an empty table")
	}

	// Step 2: Load images once for the whole batch
	assets, err := render.LoadAssets(in.BackgroundPath, in.SignaturePath)
	if err != nil {
		return nil, err
	}

	// Step 3: Attach derived fields
	session := o.ids.NewSession()
	for _, r := range sheet.Recipients {
		id, err := session.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to issue identifier: %w", r.RowNumber, err)
		}
		r.UniqueID = id
		r.IssueDate = today
		r.ConfirmationDeadline = today.AddDate(0, 0, confirmationDays)
	}

	// Step 4: Render into staging
	staging, err := o.folders.CreateStagingFolder(batchID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := o.folders.DeleteStagingFolder(batchID); err != nil {
			logger.Warn("Failed to remove staging folder", zap.Error(err))
		}
	}()

	rendered, err := o.renderAll(ctx, assets, sheet.Recipients, staging)
	if err != nil {
		return nil, err
	}

	// Step 5: Result table
	outputPath := o.OutputPath()
	if err := o.writer.Write(outputPath, sheet.Headers, sheet.Recipients); err != nil {
		return nil, fmt.Errorf("failed to write result table: %w", err)
	}

	// Step 6: Promote letters in row order, a later row replaces an earlier one of the same name
	result := &models.BatchResult{
		BatchID:     batchID,
		Recipients:  sheet.Recipients,
		OutputTable: outputPath,
		StartedAt:   today,
	}
	var promoted []string
	seen := make(map[string]bool)
	for i, r := range sheet.Recipients {
		path, err := o.folders.Promote(rendered[i].Path, LetterFileName(r.Name, r.RowNumber))
		if err != nil {
			return nil, err
		}
		if !seen[path] {
			seen[path] = true
			promoted = append(promoted, path)
		}
		result.Letters = append(result.Letters, models.LetterFile{
			Recipient: r.Name,
			UniqueID:  r.UniqueID,
			Path:      path,
			Pages:     rendered[i].Pages,
		})
		metrics.ObserveLetter(rendered[i].Pages)
	}

	// Step 7: Optional combined document
	if o.cfg.MergeLetters && len(promoted) > 0 {
		merged, err := o.merge(staging, promoted)
		if err != nil {
			logger.Warn("Failed to merge letters", zap.Error(err))
		} else {
			result.MergedPDF = merged
		}
	}

	// Step 8: Remember issued identifiers
	issued := make([]identifier.Issued, 0, len(sheet.Recipients))
	for _, r := range sheet.Recipients {
		issued = append(issued, identifier.Issued{UniqueID: r.UniqueID, Recipient: r.Name, BatchID: batchID})
	}
	if len(issued) == 0 {
		return result, nil
	}
	if err := o.ids.Registry().Record(ctx, issued); err != nil {
		logger.Error("Failed to record issued identifiers", zap.Error(err))
		observability.CaptureBatchErr(batchID, err)
	}

	return result, nil
}

// renderAll draws every recipient's letter into dir with bounded parallelism.
// Results are indexed like recipients.
func (o *Orchestrator) renderAll(ctx context.Context, assets *render.Assets, recipients []*models.Recipient, dir string) ([]*render.Rendered, error) {
	results := make([]*render.Rendered, len(recipients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, r := range recipients {
		staged := filepath.Join(dir, fmt.Sprintf("%05d.pdf", i+1))
		l := render.Letter{
			IssueDate: r.IssueDateText(),
			UniqueID:  r.UniqueID,
			Name:      r.Name,
			Body:      letter.Body(r.Designation, r.StartDateText(), r.EndDateText(), r.DeadlineText()),
		}
		g.Go(func() error {
			out, err := o.renderer.Render(gctx, assets, l, staged)
			if err != nil {
				return fmt.Errorf("row %d (%s): failed to render letter: %w", r.RowNumber, r.Name, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// merge combines the promoted letters into one document in the letters directory
func (o *Orchestrator) merge(staging string, files []string) (string, error) {
	tmp := filepath.Join(staging, pdfops.MergedFileName)
	if err := pdfops.Merge(files, tmp); err != nil {
		return "", err
	}
	pages, err := pdfops.PageCount(tmp)
	if err != nil {
		return "", err
	}
	path, err := o.folders.Promote(tmp, pdfops.MergedFileName)
	if err != nil {
		return "", err
	}
	o.logger.Info("Merged letters", zap.String("path", path), zap.Int("pages", pages))
	return path, nil
}

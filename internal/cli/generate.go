package cli

import (
	"fmt"
	"path/filepath"

	"github.com/garyjia/offer-letters/internal/batch"
	"github.com/garyjia/offer-letters/internal/config"
	"github.com/garyjia/offer-letters/internal/container"
	"github.com/garyjia/offer-letters/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one batch from local files",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	cmd.Flags().String("excel", "", "recipient spreadsheet (.xlsx)")
	cmd.Flags().String("template", "", "background image for every page")
	cmd.Flags().String("signature", "", "optional signature image")
	cmd.Flags().Bool("merge", false, "also write all letters into one PDF")
	_ = cmd.MarkFlagRequired("excel")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	excelPath, _ := cmd.Flags().GetString("excel")
	templatePath, _ := cmd.Flags().GetString("template")
	signaturePath, _ := cmd.Flags().GetString("signature")
	merge, _ := cmd.Flags().GetBool("merge")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if merge {
		cfg.Batch.MergeLetters = true
	}

	logger, err := utils.NewCLILogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Start(cmd.Context()); err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close container", zap.Error(err))
		}
	}()

	result, err := c.Orchestrator().Run(cmd.Context(), batch.Input{
		SpreadsheetPath: excelPath,
		BackgroundPath:  templatePath,
		SignaturePath:   signaturePath,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "batch %s: %d letters\n", result.BatchID, len(result.Letters))
	for _, l := range result.Letters {
		_, _ = fmt.Fprintf(out, "  %-20s %s\n", l.UniqueID, filepath.Base(l.Path))
	}
	_, _ = fmt.Fprintf(out, "table: %s\n", result.OutputTable)
	if result.MergedPDF != "" {
		_, _ = fmt.Fprintf(out, "merged: %s\n", result.MergedPDF)
	}
	return nil
}

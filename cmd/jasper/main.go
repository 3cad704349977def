package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CornwellsLTD/JasperCurrent/internal/batch"
	"github.com/CornwellsLTD/JasperCurrent/internal/config"
	"github.com/CornwellsLTD/JasperCurrent/internal/pdftext"
	"github.com/CornwellsLTD/JasperCurrent/internal/refine"
	"github.com/CornwellsLTD/JasperCurrent/internal/storage"
	"github.com/CornwellsLTD/JasperCurrent/internal/template"
	"github.com/CornwellsLTD/JasperCurrent/internal/workbook"
)

var (
	cfg config.Config
	log = config.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "jasper",
		Short:         "Catalogue supplier PDF invoices and extract their fields into a workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			config.ConfigureLogging()
			return nil
		},
	}

	root.AddCommand(
		catalogCmd(),
		processCmd(),
		templatesCmd(),
		refineCmd(),
		validateCmd(),
		inspectCmd(),
		reviewCmd(),
		runsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadRegistry() (*template.Registry, error) {
	registry := template.NewRegistry(cfg.TemplatesPath)
	if err := registry.Load(); err != nil {
		return nil, err
	}
	return registry, nil
}

func catalogCmd() *cobra.Command {
	var invoiceRoot, workbookPath string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build or refresh the invoice summary workbook from the supplier folder tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if invoiceRoot == "" {
				invoiceRoot = cfg.InvoiceRoot
			}
			if workbookPath == "" {
				workbookPath = cfg.WorkbookPath
			}
			if err := workbook.BuildCatalog(invoiceRoot, workbookPath); err != nil {
				return err
			}
			log.Infof("workbook updated at %s; previously entered values preserved", workbookPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&invoiceRoot, "root", "", "supplier folder tree to walk")
	cmd.Flags().StringVar(&workbookPath, "workbook", "", "output workbook path")
	return cmd
}

func processCmd() *cobra.Command {
	var supplier string
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run field extraction over one supplier's catalogued invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}

			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			processor := batch.NewProcessor(
				registry,
				batch.WorkbookCatalog{Path: cfg.WorkbookPath},
				pdftext.FirstPageText,
				db,
				cfg.CheckpointEvery,
			)
			stats, err := processor.Process(supplier)
			if err != nil {
				return err
			}
			fmt.Printf("done: total=%d skipped=%d accepted=%d review=%d rejected=%d errors=%d success=%.2f%%\n",
				stats.Total, stats.Skipped, stats.Accepted, stats.NeedsReview, stats.Rejected, stats.Errors, stats.SuccessRate)
			return nil
		},
	}
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier code from the registry")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the supplier template registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered suppliers and their last run statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			for _, code := range registry.Codes() {
				tpl, err := registry.Get(code)
				if err != nil {
					return err
				}
				lastRun := tpl.LastRunDate
				if lastRun == "" {
					lastRun = "never"
				}
				fmt.Printf("%-12s %-42s last run: %-19s processed: %d success: %.1f%%\n",
					code, tpl.Name, lastRun, tpl.TotalProcessed, tpl.SuccessRate)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Overwrite the registry with the built-in default templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := template.NewRegistry(cfg.TemplatesPath)
			if err := registry.RefreshDefaults(); err != nil {
				return err
			}
			log.Infof("registry reset to %d default templates at %s", len(registry.Codes()), cfg.TemplatesPath)
			return nil
		},
	})

	return cmd
}

func refineCmd() *cobra.Command {
	var file, code, name, sheet string
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Probe a sample invoice with the starter pattern set and print a draft template",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := pdftext.FirstPageText(file)
			if err != nil {
				return err
			}

			report := refine.Analyze(text, filepath.Base(file), code, name, sheet)

			fmt.Println("=== Pattern Matching Confidence Report ===")
			for _, field := range report.Fields {
				fmt.Printf("\n%s:\n  success: %v\n  matches found: %d\n", field.Field, field.Success, field.MatchesFound)
				if len(field.SampleMatches) > 0 {
					fmt.Printf("  sample matches: %v\n", field.SampleMatches)
				}
			}
			if report.FilenameInvoiceNumber != "" {
				fmt.Printf("\nfound invoice number in filename: %s\n", report.FilenameInvoiceNumber)
			}

			draft, err := json.MarshalIndent(report.Suggested, "", "    ")
			if err != nil {
				return err
			}
			fmt.Printf("\n=== Suggested Template ===\n%s\n", draft)

			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return err
			}
			draftPath := filepath.Join(cfg.OutputDir, code+"_template_draft.json")
			if err := os.WriteFile(draftPath, draft, 0o644); err != nil {
				return err
			}
			log.Infof("draft written to %s; hand-tune it, then run validate", draftPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "sample invoice PDF")
	cmd.Flags().StringVar(&code, "code", "NEW_SUPPLIER", "supplier code for the draft")
	cmd.Flags().StringVar(&name, "name", "New Supplier Ltd", "supplier display name")
	cmd.Flags().StringVar(&sheet, "sheet", "new supplier", "sheet identifier for the draft")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func validateCmd() *cobra.Command {
	var supplier, templateFile string
	var samples int
	var save bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Trial a proposed template against random catalogued invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("samples") {
				samples = cfg.ValidationSamples
			}

			data, err := os.ReadFile(templateFile)
			if err != nil {
				return err
			}
			tpl, err := template.ParseDraft(data)
			if err != nil {
				return err
			}

			registry, err := loadRegistry()
			if err != nil {
				return err
			}

			sheet, err := workbook.FindSupplierSheet(cfg.WorkbookPath, tpl.SheetIdentifier)
			if err != nil {
				return err
			}
			rows, err := workbook.ReadSheet(cfg.WorkbookPath, sheet)
			if err != nil {
				return err
			}
			rand.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
			if samples < len(rows) {
				rows = rows[:samples]
			}

			trial := make([]refine.Sample, 0, len(rows))
			for _, row := range rows {
				text, err := pdftext.FirstPageText(row.FullPath)
				if err != nil {
					log.Warnf("skipping sample %s: %v", row.InvoiceFile, err)
					continue
				}
				trial = append(trial, refine.Sample{Text: text, Filename: row.InvoiceFile})
			}

			rate, results, err := refine.ValidateOnSamples(tpl, trial)
			if err != nil {
				return err
			}
			for _, res := range results {
				fmt.Printf("%-40s matched %d/%d\n", res.Filename, res.MatchedFields, res.TotalPatterns)
			}
			fmt.Printf("\nsuccess rate: %.1f%% over %d samples\n", rate, len(trial))

			if save {
				registry.Upsert(supplier, tpl)
				if err := registry.Save(); err != nil {
					return err
				}
				log.Infof("template %s saved to registry", supplier)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier code to register the template under")
	cmd.Flags().StringVar(&templateFile, "template", "", "proposed template JSON document")
	cmd.Flags().IntVar(&samples, "samples", 20, "number of random catalogued invoices to trial")
	cmd.Flags().BoolVar(&save, "save", false, "upsert the template into the registry on completion")
	_ = cmd.MarkFlagRequired("supplier")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func inspectCmd() *cobra.Command {
	var file string
	var firstPage bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the extracted text of a PDF for pattern tuning",
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			var err error
			if firstPage {
				text, err = pdftext.FirstPageText(file)
			} else {
				text, err = pdftext.FullText(file)
			}
			if err != nil {
				return err
			}
			fmt.Printf("=== %s ===\n%s\n", filepath.Base(file), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "PDF to inspect")
	cmd.Flags().BoolVar(&firstPage, "first-page", false, "only dump the first page")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func reviewCmd() *cobra.Command {
	var supplier string
	var limit int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "List rows queued for human review",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			items, err := db.ListReviewItems(supplier, limit)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%-60s %.1f%% %s\n", item.FullPath, item.Confidence, item.Reason)
				for field, value := range item.Fields {
					fmt.Printf("    %s = %q\n", field, value)
				}
			}
			fmt.Printf("%d rows awaiting review\n", len(items))
			return nil
		},
	}
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier code")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to list")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

func runsCmd() *cobra.Command {
	var supplier string
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show run history for a supplier",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(supplier, limit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Printf("%s trace=%s total=%d skipped=%d accepted=%d review=%d rejected=%d errors=%d success=%.1f%% (%.0fms)\n",
					run.Stats.RunDate, run.TraceID, run.Stats.Total, run.Stats.Skipped, run.Stats.Accepted,
					run.Stats.NeedsReview, run.Stats.Rejected, run.Stats.Errors, run.Stats.SuccessRate, run.DurationMs)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier code")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

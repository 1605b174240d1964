// Package main provides the CLI entry point for tabelle-go.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tabelle-go/pkg/tabelle"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/models"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/output"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/parser"
	"github.com/ukaji3/tabelle-go/pkg/tabelle/store"
)

var (
	outputPath   string
	pretty       bool
	encoding     string
	separator    string
	maxPasses    int
	commands     []string
	snapshotPath string
	snapshotName string
	restoreName  string
	tablesDir    string
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabelle [input.csv|input.xlsx]",
		Short: "Load, evaluate and edit grids of cells",
		Long: `tabelle-go loads delimited text or workbooks into a grid, evaluates
its formulas, runs editor commands on it and outputs the result as JSON.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&encoding, "encoding", "utf-8", "Encoding of delimited input: "+strings.Join(parser.Encodings, ", "))
	rootCmd.Flags().StringVar(&separator, "separator", "", "Field separator of delimited input, or \"tab\" (default: detect)")
	rootCmd.Flags().IntVar(&maxPasses, "max-passes", 0, "Maximum formula evaluation passes (default: one per cell)")
	rootCmd.Flags().StringArrayVarP(&commands, "exec", "e", nil, "Editor command to run, e.g. \"sort B\" (repeatable)")
	rootCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot database path")
	rootCmd.Flags().StringVar(&snapshotName, "snapshot-name", "", "Store the grid in the snapshot database under this name")
	rootCmd.Flags().StringVar(&restoreName, "restore", "", "Load the grid from the snapshot database instead of a file")
	rootCmd.Flags().StringVar(&tablesDir, "tables-dir", "", "Directory for per-table output files")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sep, err := parseSeparator(separator)
	if err != nil {
		return err
	}
	opts := tabelle.Options{
		Encoding:  encoding,
		Separator: sep,
		MaxPasses: maxPasses,
		Logger:    logger,
	}

	var snapshots *store.Store
	if snapshotPath != "" {
		if snapshots, err = store.Open(snapshotPath); err != nil {
			return fmt.Errorf("failed to open snapshots: %w", err)
		}
		defer snapshots.Close()
	}

	g, err := load(args, snapshots, opts)
	if err != nil {
		return err
	}

	session := &tabelle.Session{Grid: g, Options: opts, Out: os.Stderr}
	for _, text := range commands {
		c, err := tabelle.ParseCommand(text)
		if err != nil {
			return err
		}
		if err := c.Execute(session); err != nil {
			if errors.Is(err, tabelle.ErrNoMatch) {
				logger.Warn("command found nothing", "command", text)
				continue
			}
			return fmt.Errorf("%s: %w", c.FullDisplay(), err)
		}
	}
	g = session.Grid

	if snapshotName != "" {
		if snapshots == nil {
			return errors.New("--snapshot-name requires --snapshot")
		}
		if err := snapshots.Save(snapshotName, g); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		logger.Info("saved snapshot", "name", snapshotName)
	}

	wb := tabelle.ToWorkbookData(g)
	jsonData, err := output.ToJSON(wb, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if tablesDir == "" {
		fmt.Println(string(jsonData))
	}

	if tablesDir != "" {
		if err := writeTableFiles(wb, tablesDir); err != nil {
			return fmt.Errorf("failed to write table files: %w", err)
		}
	}

	return nil
}

func load(args []string, snapshots *store.Store, opts tabelle.Options) (*grid.Grid, error) {
	switch {
	case restoreName != "":
		if snapshots == nil {
			return nil, errors.New("--restore requires --snapshot")
		}
		g, err := snapshots.Load(restoreName)
		if err != nil {
			return nil, err
		}
		g.SetEvaluator(opts.Evaluator)
		return g, nil
	case len(args) == 1:
		return tabelle.Open(args[0], opts)
	}
	return grid.New(tabelle.NewGridSize, tabelle.NewGridSize), nil
}

func parseSeparator(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid separator: %q (must be a single character)", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func writeTableFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for sheetName, sheet := range wb.Sheets {
		for i, view := range tabelle.TableViews(wb.BookName, sheetName, sheet) {
			jsonData, err := output.AreaViewToJSON(&view, pretty)
			if err != nil {
				return err
			}

			filename := filepath.Join(dir, fmt.Sprintf("%s_table%d.json", sheetName, i+1))
			if err := os.WriteFile(filename, jsonData, 0644); err != nil {
				return err
			}
		}
	}

	return nil
}

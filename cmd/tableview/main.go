// Command tableview prints a filtered, sorted page of a dataset in the
// terminal.
//
//	tableview list
//	tableview show people --columns summary --filter salary=gt0 --filter role=Engineer,Manager --sort salary:desc
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	_ "github.com/JonMunkholm/datatable/internal/core/datasets" // Register all datasets
	"github.com/JonMunkholm/datatable/internal/logging"
	"github.com/JonMunkholm/datatable/internal/source"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

// showOptions are the flags of the show command.
type showOptions struct {
	columns     string
	filters     []string
	sorts       []string
	page        int
	pageSize    int
	dataDir     string
	databaseURL string
	timeout     time.Duration
	format      string
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "tableview",
		Short:         "Filter, sort and page datasets in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Logs go to stderr so table output stays clean.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newListCmd(), newShowCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered datasets and their column sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := make([][]string, 0, core.DatasetCount())
			for _, d := range core.All() {
				sets := make([]string, len(d.ColumnSets))
				for i, cs := range d.ColumnSets {
					sets[i] = cs.Name
				}
				rows = append(rows, []string{d.Info.Key, d.Info.Label, strings.Join(sets, ", ")})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Label", "Column sets"}, rows))
			return err
		},
	}
}

func newShowCmd() *cobra.Command {
	opts := showOptions{}

	cmd := &cobra.Command{
		Use:   "show <dataset>",
		Short: "Print one page of a dataset",
		Long: `Print one page of a dataset.

Filters take column=value. Text columns match a case-insensitive substring,
money columns take eq0 or gt0, and select columns take a comma-separated list
of item values or labels. Sorts take column or column:desc and apply in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.columns, "columns", "c", "", "Column set (default: the dataset's first set)")
	f.StringArrayVarP(&opts.filters, "filter", "f", nil, "Filter as column=value (repeatable)")
	f.StringSliceVarP(&opts.sorts, "sort", "s", nil, "Sort as column[:desc] (repeatable or comma-separated)")
	f.IntVarP(&opts.page, "page", "p", 1, "Page number")
	f.IntVarP(&opts.pageSize, "page-size", "n", core.DefaultPageSize, "Rows per page; 0 or less prints all rows")
	f.StringVar(&opts.dataDir, "data-dir", os.Getenv("DATA_DIR"), "Directory of <dataset>.json files")
	f.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL to load rows from")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Row loading timeout")
	f.StringVar(&opts.format, "format", "table", "Output format: table or tsv")
	return cmd
}

// runShow loads a dataset, applies the options and prints the page.
func runShow(ctx context.Context, w io.Writer, datasetKey string, opts showOptions) error {
	if opts.page < 1 {
		return fmt.Errorf("%w: page=%d", core.ErrInvalidPage, opts.page)
	}
	if opts.format != "table" && opts.format != "tsv" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	d, err := core.Get(datasetKey)
	if err != nil {
		return err
	}
	cs, err := d.ColumnSet(opts.columns)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	src, closeSource, err := source.Open(ctx, config.SourceConfig{
		DataDir:     opts.dataDir,
		DatabaseURL: opts.databaseURL,
	})
	if err != nil {
		return err
	}
	defer closeSource()

	loadCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	rows, err := src.Rows(loadCtx, d)
	if err != nil {
		return fmt.Errorf("load %s: %w", d.Info.Key, err)
	}

	headers := cs.Build()
	tbl := core.NewTable(headers, rows, core.WithPageSize(opts.pageSize))

	for _, f := range opts.filters {
		key, value, _ := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if err := core.CheckColumn(headers, key); err != nil {
			return err
		}
		tbl.SetFilter(key, core.ParseFilterInput(headerByKey(headers, key), []string{value}))
	}

	keys, desc, err := parseSortFlags(headers, opts.sorts)
	if err != nil {
		return err
	}
	tbl.SetSort(keys, desc)
	tbl.SetPage(opts.page)

	slog.Debug("table built",
		"dataset", d.Info.Key,
		"columns", cs.Name,
		"rows", len(rows),
		"matching", tbl.Total(),
		"active_filters", len(tbl.ActiveFilters()),
	)

	texts := make([]string, len(headers))
	for i := range headers {
		texts[i] = headers[i].Text
	}

	if opts.format == "tsv" {
		return writeTSV(w, texts, tbl.DisplayRows())
	}
	if _, err := fmt.Fprintln(w, renderTable(texts, tbl.DisplayRows())); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("page %d/%d, %d rows", tbl.Page(), tbl.PageCount(), tbl.Total())))
	return err
}

// parseSortFlags parses column[:desc] flags and checks each column exists.
func parseSortFlags(headers []core.ColumnHeader, flags []string) ([]string, []bool, error) {
	var (
		keys []string
		desc []bool
	)
	for _, f := range flags {
		key, dir, _ := strings.Cut(strings.TrimSpace(f), ":")
		if key == "" {
			continue
		}
		if err := core.CheckColumn(headers, key); err != nil {
			return nil, nil, err
		}
		switch strings.ToLower(dir) {
		case "", "asc":
			desc = append(desc, false)
		case "desc":
			desc = append(desc, true)
		default:
			return nil, nil, fmt.Errorf("invalid sort direction %q for %s", dir, key)
		}
		keys = append(keys, key)
	}
	return keys, desc, nil
}

// renderTable draws rows with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// writeTSV writes headers and rows separated by tabs.
func writeTSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func headerByKey(headers []core.ColumnHeader, key string) *core.ColumnHeader {
	for i := range headers {
		if headers[i].Value == key {
			return &headers[i]
		}
	}
	return nil
}

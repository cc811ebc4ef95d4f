// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/archive"
	"github.com/pdiddy/archive-engine/internal/logging"
	"github.com/pdiddy/archive-engine/internal/note"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/internal/signature"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [documents|elements|notes|logs]",
	Short: "Run a declarative search over one record type",
	Long: `Search runs a paged, sorted, declarative query over documents,
signature elements, notes, or captured logs. Conditions come from a
YAML query file; paging and sorting can be set or overridden with
flags, and --save-query writes the effective request back to a file.

Document searches skip disabled records unless --include-disabled is
given or the query already filters on active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	req := types.SearchRequest{}
	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		qf, err := search.ReadQueryFile(path)
		if err != nil {
			return err
		}
		req = qf.SearchRequest
		if target == "" {
			target = qf.Target
		}
	}
	if target == "" {
		return fmt.Errorf("record type required: documents, elements, notes, or logs")
	}

	if cmd.Flags().Changed("page") {
		req.Page, _ = cmd.Flags().GetInt("page")
	}
	if cmd.Flags().Changed("page-size") {
		req.PageSize, _ = cmd.Flags().GetInt("page-size")
	}
	if cmd.Flags().Changed("sort") {
		raw, _ := cmd.Flags().GetStringSlice("sort")
		sort, err := parseSortFlags(raw)
		if err != nil {
			return err
		}
		req.Sort = sort
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = appCfg.Search.DefaultPageSize
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if max := appCfg.Search.MaxPageSize; max > 0 && req.PageSize > max {
		return fmt.Errorf("page size %d exceeds the configured maximum %d", req.PageSize, max)
	}

	if path, _ := cmd.Flags().GetString("save-query"); path != "" {
		if err := search.WriteQueryFile(path, target, req); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved query to", path)
	}

	format, _ := cmd.Flags().GetString("format")
	out := io.Writer(os.Stdout)
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if format == "table" {
			return fmt.Errorf("table output cannot be exported: use --format json or yaml")
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()

	switch target {
	case "documents":
		includeDisabled, _ := cmd.Flags().GetBool("include-disabled")
		if !includeDisabled && !queriesField(req.Query, "active") {
			req.Query = append(req.Query, types.SearchQueryElement{
				Field: "active", Condition: types.ConditionEq, Value: true,
			})
		}
		resp, err := archive.NewStore(conn).Search(ctx, req)
		if err != nil {
			return err
		}
		if format == "table" {
			return documentsTable(out, resp)
		}
		return encodeTo(out, format, resp)

	case "elements":
		resp, err := signature.NewStore(conn).SearchElements(ctx, req)
		if err != nil {
			return err
		}
		if format == "table" {
			return elementsTable(out, resp)
		}
		return encodeTo(out, format, resp)

	case "notes":
		resp, err := note.NewStore(conn).Search(ctx, req)
		if err != nil {
			return err
		}
		if format == "table" {
			return notesTable(out, resp)
		}
		return encodeTo(out, format, resp)

	case "logs":
		resp, err := logging.NewStore(conn).Search(ctx, req)
		if err != nil {
			return err
		}
		if format == "table" {
			return logsTable(out, resp)
		}
		return encodeTo(out, format, resp)

	default:
		return fmt.Errorf("unknown record type %q: use documents, elements, notes, or logs", target)
	}
}

// --- flag parsing ---

// parseSortFlags decodes "field" or "field:desc" sort flags.
func parseSortFlags(raw []string) ([]types.SortElement, error) {
	sort := make([]types.SortElement, 0, len(raw))
	for _, item := range raw {
		field, direction, found := strings.Cut(item, ":")
		if field == "" {
			return nil, fmt.Errorf("invalid sort %q: use field or field:asc|desc", item)
		}
		if !found {
			direction = "asc"
		}
		switch direction {
		case "asc", "desc":
		default:
			return nil, fmt.Errorf("invalid sort direction %q in %q", direction, item)
		}
		sort = append(sort, types.SortElement{
			Field:     field,
			Direction: types.SortDirection(direction),
		})
	}
	return sort, nil
}

func queriesField(query []types.SearchQueryElement, field string) bool {
	for _, elem := range query {
		if elem.Field == field {
			return true
		}
	}
	return false
}

// --- table rendering ---

func documentsTable(w io.Writer, resp *types.SearchResponse[types.ArchiveDocument]) error {
	if len(resp.Data) == 0 {
		fmt.Fprintln(w, "No matching documents.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-8s  %-40s  %-20s  %-12s  %s\n", "ID", "Type", "Title", "Creator", "Date", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range resp.Data {
		fmt.Fprintf(w, "%-6d  %-8s  %-40s  %-20s  %-12s  %s\n",
			d.ID, d.DocType, trunc(d.Title, 40), trunc(d.Creator, 20),
			trunc(d.CreationDate, 12), formatIDs(d.TagIDs))
	}
	pageFooter(w, resp.Page, resp.TotalPages, resp.TotalSize)
	return nil
}

func elementsTable(w io.Writer, resp *types.SearchResponse[types.SignatureElement]) error {
	if len(resp.Data) == 0 {
		fmt.Fprintln(w, "No matching elements.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-10s  %-30s  %-10s  %s\n", "ID", "Index", "Name", "Component", "Parents")
	fmt.Fprintln(w, strings.Repeat("-", 75))
	for _, e := range resp.Data {
		fmt.Fprintf(w, "%-6d  %-10s  %-30s  %-10d  %s\n",
			e.ID, trunc(e.Index, 10), trunc(e.Name, 30), e.SignatureComponentID, formatIDs(e.ParentIDs))
	}
	pageFooter(w, resp.Page, resp.TotalPages, resp.TotalSize)
	return nil
}

func notesTable(w io.Writer, resp *types.SearchResponse[types.Note]) error {
	if len(resp.Data) == 0 {
		fmt.Fprintln(w, "No matching notes.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-40s  %-16s  %-7s  %s\n", "ID", "Title", "Owner", "Shared", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, n := range resp.Data {
		shared := "no"
		if n.Shared {
			shared = "yes"
		}
		fmt.Fprintf(w, "%-6d  %-40s  %-16s  %-7s  %s\n",
			n.ID, trunc(n.Title, 40), trunc(n.OwnerLogin, 16), shared, formatIDs(n.TagIDs))
	}
	pageFooter(w, resp.Page, resp.TotalPages, resp.TotalSize)
	return nil
}

func logsTable(w io.Writer, resp *types.SearchResponse[types.LogEntry]) error {
	if len(resp.Data) == 0 {
		fmt.Fprintln(w, "No matching log entries.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-6s  %-12s  %s\n", "Time", "Level", "Category", "Message")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, entry := range resp.Data {
		fmt.Fprintf(w, "%-20s  %-6s  %-12s  %s\n",
			entry.CreatedOn.Format("2006-01-02 15:04:05"), entry.Level,
			trunc(entry.Category, 12), trunc(entry.Message, 48))
	}
	pageFooter(w, resp.Page, resp.TotalPages, resp.TotalSize)
	return nil
}

func pageFooter(w io.Writer, page, totalPages int, totalSize int64) {
	fmt.Fprintf(w, "\npage %d of %d, %d total\n", page, totalPages, totalSize)
}

func init() {
	searchCmd.Flags().String("query-file", "", "YAML query file to run")
	searchCmd.Flags().String("save-query", "", "write the effective query to a YAML file")
	searchCmd.Flags().Int("page", 1, "1-based page number")
	searchCmd.Flags().Int("page-size", 0, "records per page (-1 for all, 0 for the configured default)")
	searchCmd.Flags().StringSlice("sort", nil, "sort fields, field or field:asc|desc")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	searchCmd.Flags().String("output", "", "export results to a file instead of stdout")
	searchCmd.Flags().Bool("include-disabled", false, "include disabled documents")

	rootCmd.AddCommand(searchCmd)
}

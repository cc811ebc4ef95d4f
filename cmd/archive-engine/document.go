// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/internal/archive"
	"github.com/pdiddy/archive-engine/internal/signature"
	"github.com/pdiddy/archive-engine/internal/tag"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage archive documents and units",
	Long: `Document manages archival records: units (containers such as folders or
boxes) and the documents filed inside them. Records are described in
YAML files for add and update; disable retires a record without
deleting it.`,
}

// --- add subcommand ---

var documentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a document or unit from a YAML description",
	RunE:  runDocumentAdd,
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	doc, err := readDocumentFile(cmd)
	if err != nil {
		return err
	}
	if createdBy, _ := cmd.Flags().GetString("created-by"); createdBy != "" {
		doc.CreatedBy = createdBy
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := applyDocumentSetFlags(cmd, conn, doc); err != nil {
		return err
	}

	created, err := archive.NewStore(conn).Create(context.Background(), doc)
	if err != nil {
		return err
	}

	logger.Info().Str("category", "archive").
		Int64("archiveDocumentId", created.ID).
		Msg("document created")
	fmt.Printf("Created %s %d: %s\n", created.DocType, created.ID, created.Title)
	return nil
}

// --- show subcommand ---

var documentShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one record as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	doc, err := archive.NewStore(conn).Get(context.Background(), id)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return printRecord(format, doc)
}

// --- update subcommand ---

var documentUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a record's state from a YAML description",
	Long: `Update replaces every descriptive field, the tag set, and both
signature sets of the record with the state in the YAML file. Set
flags override the corresponding sets from the file. Creation
authorship and timestamps are preserved.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentUpdate,
}

func runDocumentUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	doc, err := readDocumentFile(cmd)
	if err != nil {
		return err
	}
	if updatedBy, _ := cmd.Flags().GetString("updated-by"); updatedBy != "" {
		doc.UpdatedBy = updatedBy
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := applyDocumentSetFlags(cmd, conn, doc); err != nil {
		return err
	}

	updated, err := archive.NewStore(conn).Update(context.Background(), id, doc)
	if err != nil {
		return err
	}

	logger.Info().Str("category", "archive").
		Int64("archiveDocumentId", updated.ID).
		Msg("document updated")
	fmt.Printf("Updated %s %d: %s\n", updated.DocType, updated.ID, updated.Title)
	return nil
}

// --- disable subcommand ---

var documentDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Retire a record without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDisable,
}

func runDocumentDisable(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	updatedBy, _ := cmd.Flags().GetString("updated-by")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := archive.NewStore(conn).Disable(context.Background(), id, updatedBy); err != nil {
		return err
	}

	logger.Info().Str("category", "archive").
		Int64("archiveDocumentId", id).
		Msg("document disabled")
	fmt.Printf("Disabled document %d\n", id)
	return nil
}

// --- verify-links subcommand ---

var documentVerifyLinksCmd = &cobra.Command{
	Use:   "verify-links",
	Short: "Probe the digitized-copy links of active records",
	Long: `Verify-links sends a HEAD request to the digitized version link of
every active digitized record and reports the outcome per record.
Repository servers that answer 429 are retried with backoff.`,
	RunE: runDocumentVerifyLinks,
}

func runDocumentVerifyLinks(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	client := &http.Client{Timeout: timeout}
	report, err := archive.NewStore(conn).VerifyLinks(context.Background(), client)
	if err != nil {
		return err
	}
	if len(report) == 0 {
		fmt.Println("No digitized records with links.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-4s  %-40s  %s\n", "ID", "OK", "Title", "Detail")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	broken := 0
	for _, r := range report {
		ok := "yes"
		if !r.OK {
			ok = "NO"
			broken++
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-4s  %-40s  %s\n", r.DocumentID, ok, trunc(r.Title, 40), r.Detail)
	}
	fmt.Fprintf(os.Stdout, "\n%d links checked, %d broken\n", len(report), broken)

	if broken > 0 {
		return fmt.Errorf("%d broken link(s)", broken)
	}
	return nil
}

// --- shared helpers ---

func readDocumentFile(cmd *cobra.Command) (*types.ArchiveDocument, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return nil, fmt.Errorf("a YAML record description is required: --file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record file: %w", err)
	}

	var doc types.ArchiveDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing record file: %w", err)
	}
	return &doc, nil
}

// applyDocumentSetFlags lets the set flags override the tag and
// signature sets read from the record file.
func applyDocumentSetFlags(cmd *cobra.Command, conn *sql.DB, doc *types.ArchiveDocument) error {
	if cmd.Flags().Changed("tags") {
		names, _ := cmd.Flags().GetStringSlice("tags")
		ids, err := tag.NewStore(conn).Resolve(context.Background(), names)
		if err != nil {
			return err
		}
		doc.TagIDs = ids
	}
	if cmd.Flags().Changed("descriptive") {
		paths, err := readPathFlag(cmd, "descriptive")
		if err != nil {
			return err
		}
		doc.DescriptiveSignatures = paths
	}
	if cmd.Flags().Changed("topographic") {
		paths, err := readPathFlag(cmd, "topographic")
		if err != nil {
			return err
		}
		doc.TopographicSignatures = paths
	}
	return nil
}

// readPathFlag parses a repeatable signature path flag. Each value is
// one path, "1,2,3" or "[1,2,3]".
func readPathFlag(cmd *cobra.Command, name string) ([][]int64, error) {
	raw, _ := cmd.Flags().GetStringArray(name)
	paths := make([][]int64, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "[") {
			s = "[" + s + "]"
		}
		p, err := signature.ParsePath(s)
		if err != nil {
			return nil, err
		}
		if !p.Valid() {
			return nil, fmt.Errorf("signature path %q must list positive element ids", s)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func init() {
	documentAddCmd.Flags().String("file", "", "YAML file describing the record")
	documentAddCmd.Flags().String("created-by", "", "caller identifier recorded on the new record")
	documentAddCmd.Flags().StringSlice("tags", nil, "tag names overriding the file's tag set")
	documentAddCmd.Flags().StringArray("descriptive", nil, "descriptive signature path, e.g. 1,2,3 (repeatable)")
	documentAddCmd.Flags().StringArray("topographic", nil, "topographic signature path (repeatable)")

	documentShowCmd.Flags().String("format", "yaml", "output format: yaml or json")

	documentUpdateCmd.Flags().String("file", "", "YAML file with the full replacement state")
	documentUpdateCmd.Flags().String("updated-by", "", "caller identifier recorded on the update")
	documentUpdateCmd.Flags().StringSlice("tags", nil, "tag names overriding the file's tag set")
	documentUpdateCmd.Flags().StringArray("descriptive", nil, "descriptive signature path, e.g. 1,2,3 (repeatable)")
	documentUpdateCmd.Flags().StringArray("topographic", nil, "topographic signature path (repeatable)")

	documentDisableCmd.Flags().String("updated-by", "", "caller identifier recorded on the disable")

	documentVerifyLinksCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout for link probes")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentUpdateCmd)
	documentCmd.AddCommand(documentDisableCmd)
	documentCmd.AddCommand(documentVerifyLinksCmd)

	rootCmd.AddCommand(documentCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/signature"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Manage signature components and elements",
	Long: `Signature manages the hierarchical signature vocabulary. Components
group elements and choose how ordinal indices are rendered (dec, roman,
small_char, capital_char); elements form the hierarchy through parent
links and appear in document signature paths by ID.`,
}

var signatureComponentCmd = &cobra.Command{
	Use:   "component",
	Short: "Manage signature components",
}

var signatureElementCmd = &cobra.Command{
	Use:   "element",
	Short: "Manage signature elements",
}

// --- component add subcommand ---

var componentAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a component",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponentAdd,
}

func runComponentAdd(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	indexType, _ := cmd.Flags().GetString("index-type")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	created, err := signature.NewStore(conn).CreateComponent(
		context.Background(), args[0], description, types.IndexType(indexType))
	if err != nil {
		return err
	}
	fmt.Printf("Created component %d: %s\n", created.ID, created.Name)
	return nil
}

// --- component list subcommand ---

var componentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all components",
	RunE:  runComponentList,
}

func runComponentList(cmd *cobra.Command, args []string) error {
	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	components, err := signature.NewStore(conn).ListComponents(context.Background())
	if err != nil {
		return err
	}
	if len(components) == 0 {
		fmt.Println("No components defined.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-24s  %-14s  %s\n", "ID", "Name", "Index type", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, c := range components {
		fmt.Fprintf(os.Stdout, "%-6d  %-24s  %-14s  %s\n",
			c.ID, trunc(c.Name, 24), c.IndexType, trunc(c.Description, 30))
	}
	fmt.Fprintf(os.Stdout, "\n%d components\n", len(components))
	return nil
}

// --- component update subcommand ---

var componentUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change a component's name, description, or index type",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponentUpdate,
}

func runComponentUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	store := signature.NewStore(conn)
	current, err := store.GetComponent(context.Background(), id)
	if err != nil {
		return err
	}

	name := current.Name
	if cmd.Flags().Changed("name") {
		name, _ = cmd.Flags().GetString("name")
	}
	description := current.Description
	if cmd.Flags().Changed("description") {
		description, _ = cmd.Flags().GetString("description")
	}
	indexType := current.IndexType
	if cmd.Flags().Changed("index-type") {
		raw, _ := cmd.Flags().GetString("index-type")
		indexType = types.IndexType(raw)
	}

	updated, err := store.UpdateComponent(context.Background(), id, name, description, indexType)
	if err != nil {
		return err
	}
	fmt.Printf("Updated component %d: %s\n", updated.ID, updated.Name)
	return nil
}

// --- component delete subcommand ---

var componentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an empty component",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponentDelete,
}

func runComponentDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := signature.NewStore(conn).DeleteComponent(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted component %d\n", id)
	return nil
}

// --- component reindex subcommand ---

var componentReindexCmd = &cobra.Command{
	Use:   "reindex [id]",
	Short: "Recompute the ordinal indices of a component's elements",
	Long: `Reindex rewrites the index of every element in the component from its
position in ID order, using the component's index type. Manual index
overrides are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runComponentReindex,
}

func runComponentReindex(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := signature.NewStore(conn).ReindexComponent(context.Background(), id)
	if err != nil {
		return err
	}

	logger.Info().Str("category", "signature").
		Int64("signatureComponentId", id).
		Int("finalCount", result.FinalCount).
		Msg("component reindexed")
	fmt.Println(result.Message)
	return nil
}

// --- element add subcommand ---

var elementAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create an element inside a component",
	Long: `Add creates an element in the component given by --component. Without
--index the element receives the next ordinal index rendered in the
component's index type; --index stores a manual override verbatim.
Parent links place the element in the hierarchy.`,
	Args: cobra.ExactArgs(1),
	RunE: runElementAdd,
}

func runElementAdd(cmd *cobra.Command, args []string) error {
	componentID, _ := cmd.Flags().GetInt64("component")
	if componentID < 1 {
		return fmt.Errorf("a component is required: --component")
	}
	description, _ := cmd.Flags().GetString("description")
	index, _ := cmd.Flags().GetString("index")
	parents, _ := cmd.Flags().GetInt64Slice("parents")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	created, err := signature.NewStore(conn).CreateElement(
		context.Background(), componentID, args[0], description, index, parents)
	if err != nil {
		return err
	}
	fmt.Printf("Created element %d: %s %s\n", created.ID, created.Index, created.Name)
	return nil
}

// --- element show subcommand ---

var elementShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one element as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runElementShow,
}

func runElementShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	elem, err := signature.NewStore(conn).GetElement(context.Background(), id)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return printRecord(format, elem)
}

// --- element update subcommand ---

var elementUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change an element's fields or parent links",
	Long: `Update changes only the flagged fields. Passing --parents replaces the
whole parent set; links that would close a cycle are rejected.
--recompute-index discards a manual override and recomputes the ordinal
index from the element's position.`,
	Args: cobra.ExactArgs(1),
	RunE: runElementUpdate,
}

func runElementUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("index") && cmd.Flags().Changed("recompute-index") {
		return fmt.Errorf("--index and --recompute-index are mutually exclusive")
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	store := signature.NewStore(conn)
	current, err := store.GetElement(context.Background(), id)
	if err != nil {
		return err
	}

	name := current.Name
	if cmd.Flags().Changed("name") {
		name, _ = cmd.Flags().GetString("name")
	}
	description := current.Description
	if cmd.Flags().Changed("description") {
		description, _ = cmd.Flags().GetString("description")
	}
	index := current.Index
	if cmd.Flags().Changed("index") {
		index, _ = cmd.Flags().GetString("index")
	}
	if recompute, _ := cmd.Flags().GetBool("recompute-index"); recompute {
		index = ""
	}
	parents := current.ParentIDs
	if cmd.Flags().Changed("parents") {
		parents, _ = cmd.Flags().GetInt64Slice("parents")
	}

	updated, err := store.UpdateElement(context.Background(), id, name, description, index, parents)
	if err != nil {
		return err
	}
	fmt.Printf("Updated element %d: %s %s\n", updated.ID, updated.Index, updated.Name)
	return nil
}

// --- element delete subcommand ---

var elementDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an element and its parent links",
	Args:  cobra.ExactArgs(1),
	RunE:  runElementDelete,
}

func runElementDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := signature.NewStore(conn).DeleteElement(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted element %d\n", id)
	return nil
}

// --- element list subcommand ---

var elementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the elements of a component",
	Args:  cobra.NoArgs,
	RunE:  runElementList,
}

func runElementList(cmd *cobra.Command, args []string) error {
	componentID, _ := cmd.Flags().GetInt64("component")
	if componentID < 1 {
		return fmt.Errorf("a component is required: --component")
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	elements, err := signature.NewStore(conn).ListElements(context.Background(), componentID)
	if err != nil {
		return err
	}
	if len(elements) == 0 {
		fmt.Println("No elements in this component.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-30s  %s\n", "ID", "Index", "Name", "Parents")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 75))
	for _, e := range elements {
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-30s  %s\n",
			e.ID, trunc(e.Index, 10), trunc(e.Name, 30), formatIDs(e.ParentIDs))
	}
	fmt.Fprintf(os.Stdout, "\n%d elements\n", len(elements))
	return nil
}

func init() {
	componentAddCmd.Flags().String("description", "", "component description")
	componentAddCmd.Flags().String("index-type", "dec", "index rendering: dec, roman, small_char, or capital_char")

	componentUpdateCmd.Flags().String("name", "", "new component name")
	componentUpdateCmd.Flags().String("description", "", "new description")
	componentUpdateCmd.Flags().String("index-type", "", "new index rendering")

	elementAddCmd.Flags().Int64("component", 0, "owning component ID")
	elementAddCmd.Flags().String("description", "", "element description")
	elementAddCmd.Flags().String("index", "", "manual index override")
	elementAddCmd.Flags().Int64Slice("parents", nil, "parent element IDs")

	elementShowCmd.Flags().String("format", "yaml", "output format: yaml or json")

	elementUpdateCmd.Flags().String("name", "", "new element name")
	elementUpdateCmd.Flags().String("description", "", "new description")
	elementUpdateCmd.Flags().String("index", "", "manual index override")
	elementUpdateCmd.Flags().Bool("recompute-index", false, "recompute the ordinal index")
	elementUpdateCmd.Flags().Int64Slice("parents", nil, "replacement parent element IDs")

	elementListCmd.Flags().Int64("component", 0, "component whose elements to list")

	signatureComponentCmd.AddCommand(componentAddCmd)
	signatureComponentCmd.AddCommand(componentListCmd)
	signatureComponentCmd.AddCommand(componentUpdateCmd)
	signatureComponentCmd.AddCommand(componentDeleteCmd)
	signatureComponentCmd.AddCommand(componentReindexCmd)

	signatureElementCmd.AddCommand(elementAddCmd)
	signatureElementCmd.AddCommand(elementShowCmd)
	signatureElementCmd.AddCommand(elementUpdateCmd)
	signatureElementCmd.AddCommand(elementDeleteCmd)
	signatureElementCmd.AddCommand(elementListCmd)

	signatureCmd.AddCommand(signatureComponentCmd)
	signatureCmd.AddCommand(signatureElementCmd)

	rootCmd.AddCommand(signatureCmd)
}

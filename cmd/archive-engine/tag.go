// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/tag"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long: `Tag manages the flat tag vocabulary. Tags are attached to documents
and notes by name; deleting a tag detaches it everywhere.`,
}

// --- add subcommand ---

var tagAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	created, err := tag.NewStore(conn).Create(context.Background(), args[0], description)
	if err != nil {
		return err
	}
	fmt.Printf("Created tag %d: %s\n", created.ID, created.Name)
	return nil
}

// --- list subcommand ---

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	RunE:  runTagList,
}

func runTagList(cmd *cobra.Command, args []string) error {
	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	tags, err := tag.NewStore(conn).List(context.Background())
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Println("No tags defined.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-24s  %s\n", "ID", "Name", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, t := range tags {
		fmt.Fprintf(os.Stdout, "%-6d  %-24s  %s\n", t.ID, trunc(t.Name, 24), trunc(t.Description, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d tags\n", len(tags))
	return nil
}

// --- update subcommand ---

var tagUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Rename a tag or change its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagUpdate,
}

func runTagUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	store := tag.NewStore(conn)
	current, err := store.Get(context.Background(), id)
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

	updated, err := store.Update(context.Background(), id, name, description)
	if err != nil {
		return err
	}
	fmt.Printf("Updated tag %d: %s\n", updated.ID, updated.Name)
	return nil
}

// --- delete subcommand ---

var tagDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a tag and detach it from every record",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagDelete,
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := tag.NewStore(conn).Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted tag %d\n", id)
	return nil
}

func init() {
	tagAddCmd.Flags().String("description", "", "what the tag marks")

	tagUpdateCmd.Flags().String("name", "", "new tag name")
	tagUpdateCmd.Flags().String("description", "", "new description")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagUpdateCmd)
	tagCmd.AddCommand(tagDeleteCmd)

	rootCmd.AddCommand(tagCmd)
}

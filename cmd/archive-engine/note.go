// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/note"
	"github.com/pdiddy/archive-engine/internal/tag"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage work notes",
	Long: `Note manages free-form work notes. Notes carry a tag set and an owner
login; shared notes are visible to every user. Tags are given by name
and created on first use.`,
}

// --- add subcommand ---

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	content, _ := cmd.Flags().GetString("content")
	shared, _ := cmd.Flags().GetBool("shared")
	owner, _ := cmd.Flags().GetString("owner")
	tagNames, _ := cmd.Flags().GetStringSlice("tags")

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	tagIDs, err := tag.NewStore(conn).Resolve(context.Background(), tagNames)
	if err != nil {
		return err
	}

	created, err := note.NewStore(conn).Create(context.Background(), args[0], content, shared, owner, tagIDs)
	if err != nil {
		return err
	}
	fmt.Printf("Created note %d: %s\n", created.ID, created.Title)
	return nil
}

// --- show subcommand ---

var noteShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one note as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShow,
}

func runNoteShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	n, err := note.NewStore(conn).Get(context.Background(), id)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return printRecord(format, n)
}

// --- update subcommand ---

var noteUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change a note's fields or tag set",
	Long: `Update changes only the flagged fields; everything else keeps its
current value. Passing --tags replaces the whole tag set.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteUpdate,
}

func runNoteUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	store := note.NewStore(conn)
	current, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	title := current.Title
	if cmd.Flags().Changed("title") {
		title, _ = cmd.Flags().GetString("title")
	}
	content := current.Content
	if cmd.Flags().Changed("content") {
		content, _ = cmd.Flags().GetString("content")
	}
	shared := current.Shared
	if cmd.Flags().Changed("shared") {
		shared, _ = cmd.Flags().GetBool("shared")
	}
	owner := current.OwnerLogin
	if cmd.Flags().Changed("owner") {
		owner, _ = cmd.Flags().GetString("owner")
	}
	tagIDs := current.TagIDs
	if cmd.Flags().Changed("tags") {
		tagNames, _ := cmd.Flags().GetStringSlice("tags")
		tagIDs, err = tag.NewStore(conn).Resolve(context.Background(), tagNames)
		if err != nil {
			return err
		}
	}

	updated, err := store.Update(context.Background(), id, title, content, shared, owner, tagIDs)
	if err != nil {
		return err
	}
	fmt.Printf("Updated note %d: %s\n", updated.ID, updated.Title)
	return nil
}

// --- delete subcommand ---

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := note.NewStore(conn).Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted note %d\n", id)
	return nil
}

func init() {
	noteAddCmd.Flags().String("content", "", "note body")
	noteAddCmd.Flags().Bool("shared", false, "make the note visible to every user")
	noteAddCmd.Flags().String("owner", "", "owner login")
	noteAddCmd.Flags().StringSlice("tags", nil, "tag names, created on first use")

	noteShowCmd.Flags().String("format", "yaml", "output format: yaml or json")

	noteUpdateCmd.Flags().String("title", "", "new title")
	noteUpdateCmd.Flags().String("content", "", "new body")
	noteUpdateCmd.Flags().Bool("shared", false, "shared flag")
	noteUpdateCmd.Flags().String("owner", "", "new owner login")
	noteUpdateCmd.Flags().StringSlice("tags", nil, "replacement tag names")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)

	rootCmd.AddCommand(noteCmd)
}

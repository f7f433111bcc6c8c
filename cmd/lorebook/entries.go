package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lorebook/internal/book"
	"lorebook/internal/config"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Inspect books and override entry activation",
	}
	cmd.AddCommand(entriesListCmd())
	cmd.AddCommand(entriesSetStateCmd())
	return cmd
}

func entriesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [book]",
		Short: "List books, or one book's entries with their effective state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookName := ""
			if len(args) == 1 {
				bookName = args[0]
			}
			return runEntriesList(bookName)
		},
	}
	return cmd
}

func runEntriesList(bookName string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}
	books, err := loadBooks(cfg)
	if err != nil {
		return err
	}

	if bookName == "" {
		for _, name := range books.Names() {
			b, _ := books.Get(name)
			fmt.Fprintf(os.Stdout, "%s (%d entries)\n", name, len(b.Entries))
		}
		return nil
	}

	b, ok := books.Get(bookName)
	if !ok {
		return fmt.Errorf("unknown book %q", bookName)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	states, err := db.GetEntryStates(ctx, bookName)
	if err != nil {
		return err
	}

	for _, e := range b.Entries {
		flags := ""
		if e.Constant {
			flags += " constant"
		}
		if e.Disable {
			flags += " disabled"
		}
		if state, ok := states[e.UID]; ok {
			flags += fmt.Sprintf(" override=%s", state)
		}
		fmt.Fprintf(os.Stdout, "%s keys=%v%s\n", e.UID, e.Keys, flags)
	}
	return nil
}

func entriesSetStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-state <book> <uid> <enabled|disabled|forced>",
		Short: "Override one entry's activation state",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntriesSetState(args[0], args[1], args[2])
		},
	}
	return cmd
}

func runEntriesSetState(bookName, uid, rawState string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}
	books, err := loadBooks(cfg)
	if err != nil {
		return err
	}

	b, ok := books.Get(bookName)
	if !ok {
		return fmt.Errorf("unknown book %q", bookName)
	}
	if _, ok := b.Entry(uid); !ok {
		return fmt.Errorf("unknown entry %q in book %q", uid, bookName)
	}

	state, err := book.ParseActivation(rawState)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	return db.SetEntryState(ctx, bookName, uid, state)
}

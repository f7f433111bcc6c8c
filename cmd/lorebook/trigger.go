package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lorebook/internal/config"
	"lorebook/internal/store"
	"lorebook/internal/trigger"
	"lorebook/internal/vars"
)

func triggerCmd() *cobra.Command {
	var chatID string
	var fromStdin bool
	var showUIDs bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "trigger <book> [fragment...]",
		Short: "Evaluate a book against trigger text and print the assembled content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(args[0], args[1:], chatID, fromStdin, showUIDs, verbose)
		},
	}
	cmd.Flags().StringVar(&chatID, "chat", "", "Chat session id for variable scoping")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read an additional fragment from stdin")
	cmd.Flags().BoolVar(&showUIDs, "show-uids", false, "List triggered entry uids on stderr")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log at debug level")
	return cmd
}

func runTrigger(bookName string, fragments []string, chatID string, fromStdin, showUIDs, verbose bool) error {
	ctx := context.Background()
	log := newLogger(verbose)

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

	if fromStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			fragments = append(fragments, text)
		}
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

	result := trigger.Evaluate(b.Entries, states, fragments)

	scopes := vars.NewScopes(
		store.ChatScope(ctx, db, chatID, log),
		store.GlobalScope(ctx, db, log),
	)
	content := vars.Expand(result.Content, scopes)

	if showUIDs {
		for _, e := range result.Triggered {
			fmt.Fprintln(os.Stderr, e.UID)
		}
	}
	if content == "" {
		return nil
	}
	fmt.Fprintln(os.Stdout, content)
	return nil
}

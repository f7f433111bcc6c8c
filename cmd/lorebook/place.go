package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"lorebook/internal/config"
	"lorebook/internal/fuzzy"
	"lorebook/internal/place"
)

func placeCmd() *cobra.Command {
	var chatID string
	var planOnly bool
	var explain bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "place <doc.json> <matches.json>",
		Short: "Place tag matches into a flattened document and persist the record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlace(args[0], args[1], chatID, planOnly, explain, verbose)
		},
	}
	cmd.Flags().StringVar(&chatID, "chat", "", "Chat session id the placement record belongs to")
	cmd.Flags().BoolVar(&planOnly, "plan", false, "Print the insertion plan as JSON instead of the spliced text")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show a diff between each locator and its matched line")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log at debug level")
	return cmd
}

func runPlace(docPath, matchesPath, chatID string, planOnly, explain, verbose bool) error {
	ctx := context.Background()
	log := newLogger(verbose)

	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}

	doc, err := readDocument(docPath)
	if err != nil {
		return err
	}
	matches, err := readMatches(matchesPath)
	if err != nil {
		return err
	}

	threshold := cfg.Placement.Threshold
	if threshold <= 0 {
		threshold = fuzzy.DefaultThreshold
	}

	if explain {
		explainMatches(doc.Text, matches, threshold)
	}

	engine := place.NewEngine(threshold, cfg.Placement.MarkerFormat, log)
	plan := engine.Plan(*doc, matches)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.SavePlacement(ctx, chatID, plan.Key, plan.Anchors); err != nil {
		return err
	}

	if planOnly {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	fmt.Fprintln(os.Stdout, place.Apply(*doc, plan))
	return nil
}

// explainMatches renders, per locator, a character diff against the line
// the fuzzy matcher picked, so drift between the hallucinated locator
// and the real text is visible.
func explainMatches(text string, matches []place.TagMatch, threshold float64) {
	dmp := diffmatchpatch.New()
	for _, m := range matches {
		found := fuzzy.BestLine(text, m.Locator, threshold)
		if found == nil {
			fmt.Fprintf(os.Stderr, "locator %q: no match\n", m.Locator)
			continue
		}
		diffs := dmp.DiffMain(m.Locator, found.Text, false)
		fmt.Fprintf(os.Stderr, "locator %q -> line %d (score %.2f)\n%s\n",
			m.Locator, found.LineIndex, found.Score, dmp.DiffPrettyText(diffs))
	}
}

func readDocument(path string) (*place.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc place.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}
	if len(doc.Spans) == 0 {
		// Plain-text documents get one synthetic span covering
		// everything, so span mapping always succeeds.
		doc.Spans = []place.Span{{ID: "text", Start: 0, End: len(doc.Text)}}
	}
	return &doc, nil
}

func readMatches(path string) ([]place.TagMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}
	var matches []place.TagMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("parsing matches %s: %w", path, err)
	}
	return matches, nil
}

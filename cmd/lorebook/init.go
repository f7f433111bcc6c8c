package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new lorebook project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

const exampleBook = `name: example
entries:
  - uid: warm-lighting
    keys: [sunset, dusk]
    order: 1
    content: Add warm lighting to the scene.

  - uid: orange-palette
    keys: ["warm lighting"]
    order: 2
    content: Use an orange palette.

  - uid: style-note
    constant: true
    prevent_recursion: true
    order: 100
    content: "Current mood: {{getvar::mood}}"
`

func runInit(projectName string) error {
	configPath := "lorebook.yaml"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	configContents := fmt.Sprintf(`project: %s
version: 1

database:
  dsn: sqlite://lorebook.db

books:
  - ./books/

placement:
  threshold: 0.5
  marker_format: "{{img::%%s}}"
`, projectName)

	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	bookPath := filepath.Join("books", "example.yaml")
	if err := os.MkdirAll(filepath.Dir(bookPath), 0o750); err != nil {
		return fmt.Errorf("creating books directory: %w", err)
	}
	if _, err := os.Stat(bookPath); err == nil {
		return nil
	}
	if err := os.WriteFile(bookPath, []byte(exampleBook), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", bookPath, err)
	}

	return nil
}

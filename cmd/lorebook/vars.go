package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"lorebook/internal/config"
	"lorebook/internal/store"
)

func varsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Inspect and edit persisted variables",
	}
	cmd.AddCommand(varsGetCmd())
	cmd.AddCommand(varsSetCmd())
	cmd.AddCommand(varsListCmd())
	return cmd
}

func varsGetCmd() *cobra.Command {
	var scope, chatID string
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print one variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				scope, err := resolveScope(scope, chatID)
				if err != nil {
					return err
				}
				value, found, err := db.GetVariable(ctx, scope, chatID, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("variable %q is not set", args[0])
				}
				fmt.Fprintln(os.Stdout, value)
				return nil
			})
		},
	}
	addScopeFlags(cmd, &scope, &chatID)
	return cmd
}

func varsSetCmd() *cobra.Command {
	var scope, chatID string
	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Write one variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				scope, err := resolveScope(scope, chatID)
				if err != nil {
					return err
				}
				return db.SetVariable(ctx, scope, chatID, args[0], args[1])
			})
		},
	}
	addScopeFlags(cmd, &scope, &chatID)
	return cmd
}

func varsListCmd() *cobra.Command {
	var scope, chatID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variables in a scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				scope, err := resolveScope(scope, chatID)
				if err != nil {
					return err
				}
				values, err := db.ListVariables(ctx, scope, chatID)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(values))
				for name := range values {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(os.Stdout, "%s=%s\n", name, values[name])
				}
				return nil
			})
		},
	}
	addScopeFlags(cmd, &scope, &chatID)
	return cmd
}

func addScopeFlags(cmd *cobra.Command, scope, chatID *string) {
	cmd.Flags().StringVar(scope, "scope", store.ScopeGlobal, "Variable scope: chat or global")
	cmd.Flags().StringVar(chatID, "chat", "", "Chat session id, required for chat scope")
}

func resolveScope(scope, chatID string) (string, error) {
	switch scope {
	case store.ScopeChat:
		if chatID == "" {
			return "", fmt.Errorf("--chat is required for chat scope")
		}
		return store.ScopeChat, nil
	case store.ScopeGlobal:
		return store.ScopeGlobal, nil
	}
	return "", fmt.Errorf("unknown scope %q", scope)
}

func withStore(fn func(ctx context.Context, db store.Store) error) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("lorebook.yaml")
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	return fn(ctx, db)
}

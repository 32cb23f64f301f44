package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/difyops/difybridge/dify"
)

var (
	appFilter      string
	appMode        string
	appIcon        string
	appDescription string
)

// appsCmd groups app management subcommands
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Manage Dify apps",
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps",
	Long: `List all apps visible to the configured account.

An optional filter expression is evaluated against each app, e.g.:

  difybridge apps list --filter 'Mode == "chat"'
  difybridge apps list --filter 'Name contains "support"'`,
	RunE: runAppsList,
}

var appsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new app",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsCreate,
}

var appsDeleteCmd = &cobra.Command{
	Use:   "delete <app-id>",
	Short: "Delete an app",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsDelete,
}

func init() {
	appsListCmd.Flags().StringVarP(&appFilter, "filter", "f", "", "filter expression")

	appsCreateCmd.Flags().StringVar(&appMode, "mode", "chat", "app mode (chat, completion, agent-chat, workflow)")
	appsCreateCmd.Flags().StringVar(&appIcon, "icon", "", "app icon emoji")
	appsCreateCmd.Flags().StringVar(&appDescription, "description", "", "app description")

	appsCmd.AddCommand(appsListCmd)
	appsCmd.AddCommand(appsCreateCmd)
	appsCmd.AddCommand(appsDeleteCmd)
	rootCmd.AddCommand(appsCmd)
}

func runAppsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	apps, err := difyClient.ListAppsWithDetail(ctx)
	if err != nil {
		return err
	}

	if appFilter != "" {
		apps, err = filterApps(apps, appFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	if len(apps) == 0 {
		fmt.Println("No apps found.")
		return nil
	}

	fmt.Printf("\nFound %d apps:\n", len(apps))
	fmt.Println(strings.Repeat("-", 80))
	for _, app := range apps {
		fmt.Printf("• %s [%s] (%s)\n", app.Name, app.Mode, app.ID)
		if app.Description != "" {
			fmt.Printf("  %s\n", app.Description)
		}
	}

	return nil
}

// filterApps evaluates a boolean expression against each app.
func filterApps(apps []dify.App, expression string) ([]dify.App, error) {
	program, err := expr.Compile(expression, expr.Env(dify.App{}), expr.AsBool())
	if err != nil {
		return nil, err
	}

	var matched []dify.App
	for _, app := range apps {
		result, err := expr.Run(program, app)
		if err != nil {
			return nil, err
		}
		if keep, ok := result.(bool); ok && keep {
			matched = append(matched, app)
		}
	}
	return matched, nil
}

func runAppsCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	app, err := difyClient.CreateApp(ctx, dify.CreateAppRequest{
		Name:        args[0],
		Mode:        appMode,
		Icon:        appIcon,
		Description: appDescription,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created app %q (%s)\n", app.Name, app.ID)
	return nil
}

func runAppsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	if err := difyClient.DeleteApp(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted app %s\n", args[0])
	return nil
}

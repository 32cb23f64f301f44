package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/difyops/difybridge/dify"
)

var datasetDescription string

// datasetsCmd groups dataset management subcommands
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage Dify knowledge-base datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE:  runDatasetsList,
}

var datasetsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsCreate,
}

var datasetsUploadCmd = &cobra.Command{
	Use:   "upload <dataset-id> <file>",
	Short: "Upload a document into a dataset",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetsUpload,
}

func init() {
	datasetsCreateCmd.Flags().StringVar(&datasetDescription, "description", "", "dataset description")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsCreateCmd)
	datasetsCmd.AddCommand(datasetsUploadCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	datasets, err := difyClient.ListDatasets(ctx)
	if err != nil {
		return err
	}

	if len(datasets.Data) == 0 {
		fmt.Println("No datasets found.")
		return nil
	}

	fmt.Printf("\nFound %d datasets:\n", len(datasets.Data))
	fmt.Println(strings.Repeat("-", 80))
	for _, ds := range datasets.Data {
		fmt.Printf("• %s (%s) — %d documents\n", ds.Name, ds.ID, ds.DocumentCount)
	}

	return nil
}

func runDatasetsCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	ds, err := difyClient.CreateDataset(ctx, dify.CreateDatasetRequest{
		Name:        args[0],
		Description: datasetDescription,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created dataset %q (%s)\n", ds.Name, ds.ID)
	return nil
}

func runDatasetsUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := ensureLogin(ctx); err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	if _, err := difyClient.UploadDocument(ctx, args[0], filepath.Base(args[1]), f); err != nil {
		return err
	}

	fmt.Printf("Uploaded %s to dataset %s\n", filepath.Base(args[1]), args[0])
	return nil
}

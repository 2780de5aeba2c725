package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"visaguide/internal/bootstrap"
	rabbitmqClient "visaguide/internal/platform/rabbitmq"
)

var enqueueImport bool

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import visa records from a JSON array (file or stdin)",
		Long:  "Import visa records from a JSON array, as produced by the scraper. Reads stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImport,
	}
	cmd.Flags().BoolVar(&enqueueImport, "enqueue", false, "Publish the payload to the import queue instead of writing to the database")
	rootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(args)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if enqueueImport {
		if cfg.RabbitMQ.URL == "" {
			return fmt.Errorf("--enqueue needs rabbitmq.url to be configured")
		}
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ImportQueue)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := rabbitmqClient.NewImportPublisher(conn, cfg.RabbitMQ.ImportQueue).Publish(ctx, payload); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "queued %d bytes on %s\n", len(payload), cfg.RabbitMQ.ImportQueue)
		return nil
	}

	app, err := bootstrap.NewStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.VisaService().ImportBatch(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d visa entries\n", n)
	return nil
}

func readPayload(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

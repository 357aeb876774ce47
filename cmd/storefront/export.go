package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/admin"
	"github.com/rgimusa/storefront/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFormat   string
	exportOut      string
	exportUser     string
	exportPassword string
	exportFilter   admin.FilterParams
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the order history as csv or xlsx",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFormat, "format", admin.FormatCSV, "csv or xlsx")
	f.StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	f.StringVarP(&exportUser, "user", "u", "admin", "admin username")
	f.StringVar(&exportPassword, "password", "", "admin password")
	f.StringVarP(&exportFilter.Query, "query", "q", "", "buyer name or phone contains")
	f.StringVar(&exportFilter.Shipping, "shipping", "", "sea or air")
	f.StringVar(&exportFilter.Status, "status", "", "new or contacted")
	f.StringVar(&exportFilter.Since, "since", "", "orders on or after this date")
	f.StringVar(&exportFilter.Until, "until", "", "orders on or before this date")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != admin.FormatCSV && exportFormat != admin.FormatXLSX {
		return errors.Errorf("unknown format %q", exportFormat)
	}
	filter, err := admin.ParseFilter(exportFilter)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	application := app.NewApplication(cfg)
	if err := application.Init(cfg, false); err != nil {
		return err
	}
	defer application.Release()
	if err := application.Workflow().Verify(exportUser, exportPassword); err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		file, err := os.Create(exportOut)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer file.Close()
		out = file
	}

	n, err := application.Workflow().ExportAs(exportUser, exportPassword, exportFormat, out, filter)
	if err != nil {
		return err
	}
	zap.L().Info("orders exported", zap.Int("count", n), zap.String("format", exportFormat), zap.String("out", exportOut))
	return nil
}

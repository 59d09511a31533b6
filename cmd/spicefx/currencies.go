package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/cli"
	"github.com/spf13/cobra"
)

func currenciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currencies [filter]",
		Short: "List supported currencies",
		Long: `List every currency the exchange-rate service supports.

An optional filter narrows the list by code or name, case-insensitively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCurrencies,
	}

	return cmd
}

func runCurrencies(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := newRateProvider(cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, provider)
	if err != nil {
		return err
	}

	var filter string
	if len(args) == 1 {
		filter = strings.ToLower(strings.TrimSpace(args[0]))
	}

	rows := make([][2]string, 0, catalog.Len())
	for _, c := range catalog.Currencies() {
		if filter != "" && !strings.Contains(strings.ToLower(c.Label()), filter) {
			continue
		}
		rows = append(rows, [2]string{string(c.Code), c.Name})
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No currencies match "+args[0]))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s Supported currencies (%d)", cli.ExchangeIcon, len(rows))))
	fmt.Fprint(out, cli.FormatCurrencyList(rows))
	return nil
}

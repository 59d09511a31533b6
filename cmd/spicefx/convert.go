package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/cli"
	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/expr"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <expression> [from] [to]",
		Short: "Convert an amount once and print the result",
		Long: `Evaluate an arithmetic expression and convert the result between two currencies.

Currencies default to defaults.from and defaults.to from the configuration.

Examples:
  spicefx convert 100 USD PKR
  spicefx convert "10*2+5" eur usd
  spicefx convert "(1500 - 250) / 4"`,
		Args: cobra.RangeArgs(1, 3),
		RunE: runConvert,
	}

	cmd.Flags().Bool("plain", false, "Print only the formatted result without styling")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	amount, err := expr.Evaluate(args[0])
	if err != nil {
		return common.NewUserError(common.MsgInvalidExpression, err)
	}

	from, to := cfg.Defaults.From, cfg.Defaults.To
	if len(args) > 1 {
		if from, err = model.ParseCurrencyCode(args[1]); err != nil {
			return common.NewUserError(fmt.Sprintf("Invalid currency code: %s", strings.TrimSpace(args[1])), err)
		}
	}
	if len(args) > 2 {
		if to, err = model.ParseCurrencyCode(args[2]); err != nil {
			return common.NewUserError(fmt.Sprintf("Invalid currency code: %s", strings.TrimSpace(args[2])), err)
		}
	}

	provider, err := newRateProvider(cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, provider)
	if err != nil {
		return err
	}

	result, err := convertOnce(ctx, provider, catalog, amount, from, to)
	if err != nil {
		return err
	}

	line := converter.FormatResult(result)
	if plain, _ := cmd.Flags().GetBool("plain"); !plain {
		line = cli.FormatConversion(line)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)

	return nil
}

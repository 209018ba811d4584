package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xpay-gateway/internal/domain/dictionary"
)

// cardOutput テストカードの出力形式
type cardOutput struct {
	Circuit  string `json:"circuit"`
	Number   string `json:"number"`
	Expiry   string `json:"expiry"`
	CVV      string `json:"cvv"`
	Positive bool   `json:"positive"`
}

func newTestCardsCmd(opts *options) *cobra.Command {
	var positive, negative bool
	var circuit string

	cmd := &cobra.Command{
		Use:   "test-cards",
		Short: "List the cards accepted by the test environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if positive && negative {
				return errors.New("--positive and --negative are mutually exclusive")
			}

			var outcome *bool
			switch {
			case positive:
				outcome = &positive
			case negative:
				v := false
				outcome = &v
			}

			cards := dictionary.Cards(outcome, strings.ToUpper(circuit))
			if len(cards) == 0 {
				return fmt.Errorf("no test card matches (circuits: %s)", strings.Join(dictionary.Circuits(outcome), ", "))
			}

			out := make([]cardOutput, len(cards))
			for i, c := range cards {
				cvv := c.CVV()
				if cvv == "" {
					cvv = "any"
				}
				out[i] = cardOutput{
					Circuit:  c.Circuit(),
					Number:   c.FormattedNumber(),
					Expiry:   c.Expiry(),
					CVV:      cvv,
					Positive: c.PositiveOutcome(),
				}
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CIRCUIT\tNUMBER\tEXPIRY\tCVV\tOUTCOME")
			for _, c := range out {
				result := "negative"
				if c.Positive {
					result = "positive"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Circuit, c.Number, c.Expiry, c.CVV, result)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&positive, "positive", false, "Only cards that authorize")
	cmd.Flags().BoolVar(&negative, "negative", false, "Only cards that are declined")
	cmd.Flags().StringVar(&circuit, "circuit", "", "Filter by circuit (VISA, MASTERCARD)")

	return cmd
}

package cli

import (
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// callbackOutput 検証済みの決済結果
type callbackOutput struct {
	Valid    bool   `json:"valid"`
	CodTrans string `json:"codTrans"`
	Esito    string `json:"esito"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	CodAut   string `json:"codAut,omitempty"`
	Brand    string `json:"brand"`
	Message  string `json:"messaggio"`
}

func newVerifyCallbackCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-callback <query-string>",
		Short: "Verify the MAC of a gateway outcome callback",
		Long: `Checks the required fields and the MAC of the parameters the gateway
appends to the return URL or posts to the notification URL.

The argument is the raw query string, with or without the leading "?".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := url.ParseQuery(strings.TrimPrefix(args[0], "?"))
			if err != nil {
				return fmt.Errorf("invalid query string: %w", err)
			}

			client, _, err := newClient(cmd, opts)
			if err != nil {
				return err
			}

			data, err := client.ParseCallback(cmd.Context(), params)
			if err != nil {
				return err
			}

			codTrans, _ := data.CodTrans()
			esito, _ := data.Esito()
			amount, _ := data.ImportoAsDecimal()
			currency, _ := data.Divisa()
			codAut, _ := data.CodAut()
			brand, _ := data.Brand()
			message, _ := data.Messaggio()
			out := callbackOutput{
				Valid:    true,
				CodTrans: codTrans,
				Esito:    esito.String(),
				Amount:   amount,
				Currency: currency,
				CodAut:   codAut,
				Brand:    brand,
				Message:  message,
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MAC\tOK")
			fmt.Fprintf(tw, "codTrans\t%s\n", out.CodTrans)
			fmt.Fprintf(tw, "esito\t%s\n", out.Esito)
			fmt.Fprintf(tw, "importo\t%s %s\n", out.Amount, out.Currency)
			fmt.Fprintf(tw, "codAut\t%s\n", out.CodAut)
			fmt.Fprintf(tw, "brand\t%s\n", out.Brand)
			fmt.Fprintf(tw, "messaggio\t%s\n", out.Message)
			return tw.Flush()
		},
	}
}

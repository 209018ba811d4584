package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"xpay-gateway/internal/domain/xpay"
)

// paymentMethodOutput 決済手段の出力形式
type paymentMethodOutput struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	SelectedCard string `json:"selectedcard"`
	Type         string `json:"type"`
	Recurring    string `json:"recurring"`
	Image        string `json:"image"`
}

func newPaymentMethodsCmd(opts *options) *cobra.Command {
	var platform, platformVers, pluginVers string

	cmd := &cobra.Command{
		Use:   "payment-methods",
		Short: "List the payment methods enabled for the merchant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd, opts)
			if err != nil {
				return err
			}

			req := xpay.NewPaymentMethodsRequest(platform, platformVers, pluginVers, time.Now().UnixMilli())
			resp, err := client.ListSupportedPaymentMethods(cmd.Context(), req)
			if err != nil {
				return err
			}

			methods, err := resp.AvailableMethods()
			if err != nil {
				return err
			}

			out := make([]paymentMethodOutput, 0, len(methods))
			for _, m := range methods {
				code, _ := m.Code()
				description, _ := m.Description()
				selected, _ := m.Selectedcard()
				typ, _ := m.Type()
				recurring, _ := m.Recurring()
				image, _ := m.Image()
				out = append(out, paymentMethodOutput{
					Code:         code,
					Description:  description,
					SelectedCard: selected,
					Type:         typ,
					Recurring:    recurring,
					Image:        image,
				})
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tDESCRIPTION\tSELECTEDCARD\tTYPE\tRECURRING")
			for _, m := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Code, m.Description, m.SelectedCard, m.Type, m.Recurring)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "custom", "Platform name sent to the gateway")
	cmd.Flags().StringVar(&platformVers, "platform-vers", "1.0", "Platform version")
	cmd.Flags().StringVar(&pluginVers, "plugin-vers", "1.0", "Plugin version")

	return cmd
}

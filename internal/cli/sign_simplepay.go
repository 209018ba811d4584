package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xpay-gateway/internal/domain/dictionary"
	"xpay-gateway/internal/domain/xpay"
	"xpay-gateway/internal/infrastructure/gateway"
)

func newSignSimplePayCmd(opts *options) *cobra.Command {
	var amount, currency, codTrans, returnURL, backURL, notifyURL, mail, language, selectedCard string

	cmd := &cobra.Command{
		Use:   "sign-simplepay",
		Short: "Build a signed hosted payment page form",
		Long: `Builds the form a browser posts to the hosted payment page.

The amount is given in decimal notation (for example 50.00) and is sent
in cents. The output lists the submit URL followed by every form field,
including the computed mac.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := xpay.ParseAmount(amount)
			if err != nil {
				return err
			}
			if _, err := dictionary.NewCurrency(currency); err != nil {
				return err
			}

			req := xpay.NewSimplePayRequest()
			req.SetImporto(cents)
			req.SetDivisa(currency)
			req.SetCodTrans(codTrans)
			req.SetURL(returnURL)
			req.SetURLBack(backURL)
			req.SetURLPost(notifyURL)
			req.SetMail(mail)
			req.SetSelectedcard(selectedCard)
			if language != "" {
				lang, ok := dictionary.LanguageFromAlpha2(language)
				if !ok {
					return fmt.Errorf("unknown language: %s", language)
				}
				req.SetLanguageID(lang.String())
			}

			client, _, err := newClient(cmd, opts)
			if err != nil {
				return err
			}

			form, err := client.SimplePayForm(cmd.Context(), req)
			if err != nil {
				return err
			}

			return printForm(cmd, opts, form)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount in decimal notation (required)")
	cmd.Flags().StringVar(&currency, "currency", string(dictionary.CurrencyEUR), "Currency code")
	cmd.Flags().StringVar(&codTrans, "cod-trans", "", "Merchant transaction code (required)")
	cmd.Flags().StringVar(&returnURL, "url", "", "URL the customer returns to (required)")
	cmd.Flags().StringVar(&backURL, "url-back", "", "URL the customer returns to on cancel (required)")
	cmd.Flags().StringVar(&notifyURL, "urlpost", "", "Server-to-server notification URL")
	cmd.Flags().StringVar(&mail, "mail", "", "Customer e-mail")
	cmd.Flags().StringVar(&language, "language", "", "Payment page language (it, en, ITA, ...)")
	cmd.Flags().StringVar(&selectedCard, "selected-card", "", "Preselected payment method")
	for _, name := range []string{"amount", "cod-trans", "url", "url-back"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func printForm(cmd *cobra.Command, opts *options, form *gateway.SubmitForm) error {
	if opts.json {
		return printJSON(cmd.OutOrStdout(), form)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "POST %s\n", form.URL)
	for _, f := range form.Fields {
		fmt.Fprintf(out, "%s=%s\n", f.Name, f.Value)
	}
	return nil
}

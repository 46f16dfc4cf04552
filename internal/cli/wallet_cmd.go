package cli

import (
	"strconv"

	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/wallet"
	"github.com/spf13/cobra"
)

func newWalletCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallets",
		Aliases: []string{"wallet"},
		Short:   "Manage wallets",
	}

	cmd.AddCommand(
		newWalletListCmd(a),
		newWalletBalanceCmd(a),
		newWalletCreateCmd(a),
		newWalletDeleteCmd(a),
	)

	return cmd
}

func newWalletListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			wallets, err := a.deps.WalletService.List(cmd.Context())
			if err != nil {
				return err
			}
			dtos := make([]wallet.WalletDTO, 0, len(wallets))
			rows := make([][]string, 0, len(wallets))
			for _, w := range wallets {
				dtos = append(dtos, wallet.WalletToDTO(w))
				rows = append(rows, []string{w.Id, w.Name, deref(w.Code), strconv.FormatBool(w.Hidden)})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Name", "Code", "Hidden"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No wallets found.",
			})
		},
	}
}

func newWalletBalanceCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance ID",
		Short: "Show the balance of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := a.deps.WalletService.Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Wallet", "Balance"},
				Rows:   [][]string{{balance.WalletId, formatter.Amount(balance.Balance)}},
				Value:  map[string]any{"wallet": balance.WalletId, "balance": balance.Balance},
			})
		},
	}
}

func newWalletCreateCmd(a *App) *cobra.Command {
	var name, code string
	var hidden bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := wallet.Wallet{Name: name, Hidden: hidden}
			if code != "" {
				w.Code = &code
			}
			created, err := a.deps.WalletService.Create(cmd.Context(), w)
			if err != nil {
				return err
			}
			a.println(cmd, "%s wallet %s (%s)", formatter.Success("Created"), formatter.Bold(created.Name), created.Id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Wallet name")
	cmd.Flags().StringVar(&code, "code", "", "Optional short code")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Hide the wallet from pickers")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newWalletDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.WalletService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.println(cmd, "Deleted wallet %s", args[0])
			return nil
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

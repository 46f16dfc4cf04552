package cli

import (
	"strconv"

	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/spf13/cobra"
)

func newCategoryCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage cash flow categories",
	}

	cmd.AddCommand(
		newCategoryListCmd(a),
		newCategoryTreeCmd(a),
		newCategoryCreateCmd(a),
		newCategoryDeleteCmd(a),
	)

	return cmd
}

func newCategoryListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.deps.CashflowService.List(cmd.Context())
			if err != nil {
				return err
			}
			dtos := make([]cashflow.ItemDTO, 0, len(items))
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				dtos = append(dtos, cashflow.ItemToDTO(item))
				rows = append(rows, []string{item.Id, item.Name, deref(item.Code), item.Parent, budgetFlag(item.IncludeInBudget)})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Name", "Code", "Parent", "In budget"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No categories found.",
			})
		},
	}
}

func newCategoryTreeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show categories as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.deps.CashflowService.Hierarchy(cmd.Context())
			if err != nil {
				return err
			}
			if a.format != formatter.FormatTable {
				flat := cashflow.Flatten(nodes)
				rows := make([][]string, 0, len(flat))
				for _, n := range flat {
					rows = append(rows, []string{n.Id, n.Name, n.Parent, strconv.Itoa(n.Depth)})
				}
				return a.print(cmd, formatter.Result{
					Header: []string{"Id", "Name", "Parent", "Depth"},
					Rows:   rows,
					Value:  nodes,
				})
			}
			if len(nodes) == 0 {
				a.println(cmd, "%s", formatter.Dim("No categories found."))
				return nil
			}
			_, err = cmd.OutOrStdout().Write([]byte(formatter.RenderTree(toTree(nodes))))
			return err
		},
	}
}

func toTree(nodes []cashflow.Node) []formatter.TreeNode {
	tree := make([]formatter.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		tree = append(tree, formatter.TreeNode{
			Label:    n.Name,
			Detail:   n.Id,
			Children: toTree(n.Children),
		})
	}
	return tree
}

func newCategoryCreateCmd(a *App) *cobra.Command {
	var name, code, parent, description string
	var includeInBudget bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := cashflow.Item{Name: name, Parent: parent, Description: description}
			if code != "" {
				item.Code = &code
			}
			if cmd.Flags().Changed("include-in-budget") {
				item.IncludeInBudget = &includeInBudget
			}
			created, err := a.deps.CashflowService.Create(cmd.Context(), item)
			if err != nil {
				return err
			}
			a.println(cmd, "%s category %s (%s)", formatter.Success("Created"), formatter.Bold(created.Name), created.Id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&code, "code", "", "Optional short code")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent category id")
	cmd.Flags().StringVar(&description, "description", "", "Free text description")
	cmd.Flags().BoolVar(&includeInBudget, "include-in-budget", false, "Count operations of this category in budgets")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCategoryDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category",
		Long:  "Delete a category. The API refuses while operations still reference it and its message is shown as is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.CashflowService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.println(cmd, "Deleted category %s", args[0])
			return nil
		},
	}
}

func budgetFlag(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}

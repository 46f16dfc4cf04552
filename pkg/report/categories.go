package report

import (
	"sort"
	"strings"

	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/finboard/finboard/pkg/expenditure"
)

type CategoryAmount struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryNode is a category in the tree with its own amount and the amount of its whole subtree.
type CategoryNode struct {
	CategoryAmount
	SubtreeAmount float64        `json:"subtreeAmount"`
	Children      []CategoryNode `json:"children,omitempty"`
}

type CategoryReport struct {
	Range      Range            `json:"range"`
	Total      float64          `json:"total"`
	Categories []CategoryAmount `json:"categories"`
	Tree       []CategoryNode   `json:"tree"`
}

// Categories sums expenditures in rng per category. Expenditures of unknown categories are ignored.
func Categories(items []cashflow.Item, expenditures []expenditure.Expenditure, rng Range) CategoryReport {
	result := CategoryReport{Range: rng}
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.Id] = true
	}

	amounts := make(map[string]float64)
	for _, e := range expenditures {
		if !rng.Contains(e.Date) || !known[e.CashFlowItem] {
			continue
		}
		amounts[e.CashFlowItem] += e.Amount
		result.Total += e.Amount
	}

	percentage := func(amount float64) float64 {
		if result.Total == 0 {
			return 0
		}
		return amount / result.Total * 100
	}

	result.Categories = []CategoryAmount{}
	for _, item := range items {
		amount := amounts[item.Id]
		if amount <= 0 {
			continue
		}
		result.Categories = append(result.Categories, CategoryAmount{
			Id:         item.Id,
			Name:       item.Name,
			Amount:     amount,
			Percentage: percentage(amount),
		})
	}
	sort.SliceStable(result.Categories, func(i, j int) bool {
		return result.Categories[i].Amount > result.Categories[j].Amount
	})

	forest := cashflow.BuildHierarchy(toRawNodes(items))
	result.Tree = make([]CategoryNode, 0, len(forest))
	for _, root := range forest {
		result.Tree = append(result.Tree, annotate(root, amounts, percentage))
	}
	return result
}

func toRawNodes(items []cashflow.Item) []cashflow.RawNode {
	nodes := make([]cashflow.RawNode, 0, len(items))
	for _, item := range items {
		name := item.Name
		nodes = append(nodes, cashflow.RawNode{
			Id:              api.Ref(item.Id),
			Name:            &name,
			Code:            item.Code,
			Parent:          api.Ref(item.Parent),
			IncludeInBudget: item.IncludeInBudget,
			Deleted:         item.Deleted,
		})
	}
	return nodes
}

func annotate(node cashflow.Node, amounts map[string]float64, percentage func(float64) float64) CategoryNode {
	annotated := CategoryNode{
		CategoryAmount: CategoryAmount{
			Id:         node.Id,
			Name:       node.Name,
			Amount:     amounts[node.Id],
			Percentage: percentage(amounts[node.Id]),
		},
	}
	annotated.SubtreeAmount = annotated.Amount
	for _, child := range node.Children {
		c := annotate(child, amounts, percentage)
		annotated.SubtreeAmount += c.SubtreeAmount
		annotated.Children = append(annotated.Children, c)
	}
	return annotated
}

func (r CategoryReport) Kind() Kind    { return KindCategories }
func (r CategoryReport) Period() Range { return r.Range }

func (r CategoryReport) Totals() map[string]float64 {
	return map[string]float64{"total": r.Total}
}

// Table walks the tree depth-first, indenting names by depth.
func (r CategoryReport) Table() Table {
	table := Table{Header: []string{"Category", "Amount", "Share %", "Subtree amount"}}
	var walk func(nodes []CategoryNode, depth int)
	walk = func(nodes []CategoryNode, depth int) {
		for _, n := range nodes {
			table.Rows = append(table.Rows, []string{
				strings.Repeat("  ", depth) + n.Name,
				formatAmount(n.Amount),
				formatPercent(n.Percentage),
				formatAmount(n.SubtreeAmount),
			})
			walk(n.Children, depth+1)
		}
	}
	walk(r.Tree, 0)
	table.Rows = append(table.Rows, []string{"Total", formatAmount(r.Total), "", ""})
	return table
}

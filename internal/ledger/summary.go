package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// FilterOption narrows which accounts an account summary keeps. Filtering
// happens after per-account aggregation and before group totals, so
// category and grand totals reflect only the retained accounts.
type FilterOption string

const (
	FilterAll                   FilterOption = "all"
	FilterOnlyDebtBalance       FilterOption = "onlyDebtBalance"
	FilterOnlyReceivableBalance FilterOption = "onlyReceivableBalance"
	FilterOnlyActive            FilterOption = "onlyActive"
)

// ParseFilterOption validates a filter option string. Empty means "all".
func ParseFilterOption(s string) (FilterOption, error) {
	switch FilterOption(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterOnlyDebtBalance, FilterOnlyReceivableBalance, FilterOnlyActive:
		return FilterOption(s), nil
	default:
		return "", fmt.Errorf("unknown filter option %q", s)
	}
}

// SummaryAccount is one account's totals within a summary group.
type SummaryAccount struct {
	AccountID       string          `json:"accountId"`
	AccountName     string          `json:"accountName"`
	TotalDebt       decimal.Decimal `json:"totalDebt"`
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
	Net             decimal.Decimal `json:"net"`
	EntryCount      int             `json:"entryCount"`
}

// SummaryGroup is one category with its retained accounts and their sums.
type SummaryGroup struct {
	CategoryID      string           `json:"categoryId"`
	CategoryName    string           `json:"categoryName"`
	Accounts        []SummaryAccount `json:"accounts"`
	TotalDebt       decimal.Decimal  `json:"totalDebt"`
	TotalReceivable decimal.Decimal  `json:"totalReceivable"`
	Net             decimal.Decimal  `json:"net"`
}

// Summary groups account balances by category with grand totals.
type Summary struct {
	Groups          []SummaryGroup  `json:"groups"`
	TotalDebt       decimal.Decimal `json:"totalDebt"`
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}

func (f FilterOption) keep(net decimal.Decimal, entryCount int) bool {
	switch f {
	case FilterOnlyDebtBalance:
		return net.IsPositive()
	case FilterOnlyReceivableBalance:
		return net.IsNegative()
	case FilterOnlyActive:
		return entryCount > 0
	default:
		return true
	}
}

// BuildSummary turns per-account activity rows into a grouped summary.
// Groups are ordered by category id; accounts keep the order they arrive
// in (the repository orders them by name).
func BuildSummary(activity []models.AccountActivity, filter FilterOption) *Summary {
	summary := &Summary{
		Groups:          []SummaryGroup{},
		TotalDebt:       decimal.Zero,
		TotalReceivable: decimal.Zero,
		TotalNet:        decimal.Zero,
	}

	groupIndex := map[string]int{}
	for _, row := range activity {
		net := row.TotalDebt.Sub(row.TotalReceivable)
		if !filter.keep(net, row.EntryCount) {
			continue
		}

		idx, ok := groupIndex[row.CategoryID]
		if !ok {
			summary.Groups = append(summary.Groups, SummaryGroup{
				CategoryID:      row.CategoryID,
				CategoryName:    row.CategoryName,
				Accounts:        []SummaryAccount{},
				TotalDebt:       decimal.Zero,
				TotalReceivable: decimal.Zero,
				Net:             decimal.Zero,
			})
			idx = len(summary.Groups) - 1
			groupIndex[row.CategoryID] = idx
		}

		group := &summary.Groups[idx]
		group.Accounts = append(group.Accounts, SummaryAccount{
			AccountID:       row.AccountID,
			AccountName:     row.AccountName,
			TotalDebt:       row.TotalDebt,
			TotalReceivable: row.TotalReceivable,
			Net:             net,
			EntryCount:      row.EntryCount,
		})
		group.TotalDebt = group.TotalDebt.Add(row.TotalDebt)
		group.TotalReceivable = group.TotalReceivable.Add(row.TotalReceivable)
		group.Net = group.Net.Add(net)

		summary.TotalDebt = summary.TotalDebt.Add(row.TotalDebt)
		summary.TotalReceivable = summary.TotalReceivable.Add(row.TotalReceivable)
		summary.TotalNet = summary.TotalNet.Add(net)
	}

	sort.SliceStable(summary.Groups, func(i, j int) bool {
		return summary.Groups[i].CategoryID < summary.Groups[j].CategoryID
	})
	return summary
}

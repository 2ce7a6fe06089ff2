package report

import (
	"strings"
	"time"

	"github.com/nurpe/billing-reports/internal/model"
)

type BillPredicate func(model.BillRecord) bool

type AuditPredicate func(model.AuditLogEntry) bool

// AllBills combines predicates with AND. No predicates accept every bill.
func AllBills(predicates ...BillPredicate) BillPredicate {
	return func(bill model.BillRecord) bool {
		for _, p := range predicates {
			if !p(bill) {
				return false
			}
		}
		return true
	}
}

func AllEntries(predicates ...AuditPredicate) AuditPredicate {
	return func(entry model.AuditLogEntry) bool {
		for _, p := range predicates {
			if !p(entry) {
				return false
			}
		}
		return true
	}
}

func ByContractor(state model.FilterState) BillPredicate {
	return func(bill model.BillRecord) bool {
		return bill.ContractorID == state.ContractorID
	}
}

// ByRoute passes a bill when any of its items is priced by a contract on route.
func ByRoute(route string, contracts map[int64]model.Contract) BillPredicate {
	route = strings.TrimSpace(route)
	return func(bill model.BillRecord) bool {
		for _, item := range bill.Items {
			if item.ContractID == nil {
				continue
			}
			contract, ok := contracts[*item.ContractID]
			if ok && contract.Route() == route {
				return true
			}
		}
		return false
	}
}

func ByBillNumber(search string) BillPredicate {
	needle := strings.ToLower(strings.TrimSpace(search))
	return func(bill model.BillRecord) bool {
		return strings.Contains(strings.ToLower(bill.BillNumber), needle)
	}
}

func ByBillDate(period model.Period) BillPredicate {
	return func(bill model.BillRecord) bool {
		return period.Contains(bill.DateString())
	}
}

// BillPredicates returns one predicate per active criterion of state.
func BillPredicates(state model.FilterState, contracts []model.Contract) []BillPredicate {
	var predicates []BillPredicate
	if state.HasContractor() {
		predicates = append(predicates, ByContractor(state))
	}
	if state.HasRoute() {
		predicates = append(predicates, ByRoute(state.Route, IndexContracts(contracts)))
	}
	if state.HasSearch() {
		predicates = append(predicates, ByBillNumber(state.Search))
	}
	if state.StartDate != "" || state.EndDate != "" {
		predicates = append(predicates, ByBillDate(state.Period()))
	}
	return predicates
}

// FilterBills returns the bills passing every active criterion of state, in
// input order.
func FilterBills(bills []model.BillRecord, contracts []model.Contract, state model.FilterState) []model.BillRecord {
	pass := AllBills(BillPredicates(state, contracts)...)
	out := make([]model.BillRecord, 0, len(bills))
	for _, bill := range bills {
		if pass(bill) {
			out = append(out, bill)
		}
	}
	return out
}

func ByAction(action string) AuditPredicate {
	action = strings.TrimSpace(action)
	return func(entry model.AuditLogEntry) bool {
		return entry.Action == action
	}
}

func ByUserOrAction(search string) AuditPredicate {
	needle := strings.ToLower(strings.TrimSpace(search))
	return func(entry model.AuditLogEntry) bool {
		return strings.Contains(strings.ToLower(entry.UserName), needle) ||
			strings.Contains(strings.ToLower(entry.Action), needle)
	}
}

// ByTimestamp bounds entries by calendar days. The end day is included
// through 23:59:59.999. Unparseable bounds are ignored.
func ByTimestamp(period model.Period) AuditPredicate {
	var start, end time.Time
	if t, err := time.Parse(model.DateLayout, period.Start); err == nil {
		start = t
	}
	if t, err := time.Parse(model.DateLayout, period.End); err == nil {
		end = t.Add(24*time.Hour - time.Millisecond)
	}
	return func(entry model.AuditLogEntry) bool {
		ts := entry.Timestamp.UTC()
		if !start.IsZero() && ts.Before(start) {
			return false
		}
		if !end.IsZero() && ts.After(end) {
			return false
		}
		return true
	}
}

func AuditPredicates(state model.FilterState) []AuditPredicate {
	var predicates []AuditPredicate
	if state.HasAction() {
		predicates = append(predicates, ByAction(state.Action))
	}
	if state.HasSearch() {
		predicates = append(predicates, ByUserOrAction(state.Search))
	}
	if state.StartDate != "" || state.EndDate != "" {
		predicates = append(predicates, ByTimestamp(state.Period()))
	}
	return predicates
}

func FilterAuditLog(entries []model.AuditLogEntry, state model.FilterState) []model.AuditLogEntry {
	pass := AllEntries(AuditPredicates(state)...)
	out := make([]model.AuditLogEntry, 0, len(entries))
	for _, entry := range entries {
		if pass(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func IndexContracts(contracts []model.Contract) map[int64]model.Contract {
	index := make(map[int64]model.Contract, len(contracts))
	for _, contract := range contracts {
		index[contract.ID] = contract
	}
	return index
}

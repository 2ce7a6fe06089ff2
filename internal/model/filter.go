package model

import (
	"strings"

	"github.com/google/uuid"
)

// SelectorAll is the wire value of an unset contractor, route or action selector.
const SelectorAll = "all"

type FilterState struct {
	ContractorID uuid.UUID // uuid.Nil selects all contractors
	Route        string
	Search       string
	StartDate    string
	EndDate      string
	Action       string
}

func (f FilterState) HasContractor() bool {
	return f.ContractorID != uuid.Nil
}

func (f FilterState) HasRoute() bool {
	return isActive(f.Route)
}

func (f FilterState) HasAction() bool {
	return isActive(f.Action)
}

func (f FilterState) HasSearch() bool {
	return strings.TrimSpace(f.Search) != ""
}

// Period returns the date bounds of the filter.
func (f FilterState) Period() Period {
	return Period{Start: f.StartDate, End: f.EndDate}
}

func isActive(selector string) bool {
	selector = strings.TrimSpace(selector)
	return selector != "" && !strings.EqualFold(selector, SelectorAll)
}

// Period is an inclusive YYYY-MM-DD range. Either bound may be empty.
type Period struct {
	Start string
	End   string
}

func (p Period) Contains(date string) bool {
	if p.Start != "" && date < p.Start {
		return false
	}
	if p.End != "" && date > p.End {
		return false
	}
	return true
}

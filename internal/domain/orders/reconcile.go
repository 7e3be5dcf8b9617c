package orders

import (
	"sort"
	"strings"
)

// NormalizeName canonicalizes a sales person name for matching:
// trimmed, lower cased, inner whitespace collapsed to single spaces.
// "  Dave  Grohl " and "dave grohl" reconcile to the same person.
// There is deliberately nothing fuzzier than that: a misspelled name
// is reported, never guessed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Reconcile aggregates raw external order rows into per representative
// statistics. Rows are grouped by normalized sales person name and
// resolved against the roster; cancelled orders are skipped entirely.
// Names that resolve to nobody are collected into UnmatchedNames
// instead of failing the run, so a bad name never blocks a pay run but
// is never silently dropped either.
func Reconcile(rows []ExternalOrder, roster []RosterMember) *StatsResult {
	byName := make(map[string]string, len(roster))
	for _, m := range roster {
		byName[NormalizeName(m.FullName)] = m.RepresentativeID
	}

	result := &StatsResult{Stats: make(map[string]OrderStats)}
	unmatched := make(map[string]string)

	for _, row := range rows {
		if strings.EqualFold(row.Status, StatusCancelled) {
			continue
		}

		key := NormalizeName(row.SalesPerson)
		repID, ok := byName[key]
		if !ok {
			unmatched[key] = strings.Join(strings.Fields(row.SalesPerson), " ")
			continue
		}

		stats := result.Stats[repID]
		stats.RepresentativeID = repID
		stats.BuildingsSold++
		stats.TotalOrderAmount = stats.TotalOrderAmount.Add(row.TotalAmount)
		result.Stats[repID] = stats
	}

	for _, name := range unmatched {
		result.UnmatchedNames = append(result.UnmatchedNames, name)
	}
	sort.Strings(result.UnmatchedNames)

	return result
}

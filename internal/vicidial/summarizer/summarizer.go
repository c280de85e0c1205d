// Package summarizer groups sale leads by their source list for rendering.
package summarizer

import (
	"sort"

	"vanguard_backend/internal/vicidial/transport"
)

// ListGroup pairs one list with the sale leads that belong to it. Lists with
// no sale leads carry an empty (non-nil) Leads slice.
type ListGroup struct {
	Summary transport.ListSummary
	Leads   []transport.RemoteLeadRecord
}

// group builds one ListGroup per distinct list id. Every list in summaries
// appears exactly once, and every lead lands under its listId exactly once.
// Leads whose list id is missing from summaries get a synthesized summary so
// no lead is dropped.
func group(summaries []transport.ListSummary, leads []transport.RemoteLeadRecord) []ListGroup {
	byList := make(map[string][]transport.RemoteLeadRecord)
	for _, lead := range leads {
		byList[lead.ListID] = append(byList[lead.ListID], lead)
	}

	seen := make(map[string]bool, len(summaries))
	groups := make([]ListGroup, 0, len(summaries))
	for _, summary := range summaries {
		if seen[summary.ListID] {
			continue
		}
		seen[summary.ListID] = true

		grouped := byList[summary.ListID]
		if grouped == nil {
			grouped = []transport.RemoteLeadRecord{}
		}
		groups = append(groups, ListGroup{Summary: summary, Leads: grouped})
	}

	// A lead referencing a list the catalogue forgot still has to show up.
	for _, lead := range leads {
		if seen[lead.ListID] {
			continue
		}
		seen[lead.ListID] = true
		groups = append(groups, ListGroup{
			Summary: transport.ListSummary{
				ListID:    lead.ListID,
				ListName:  lead.ListName,
				SaleCount: len(byList[lead.ListID]),
				Active:    true,
			},
			Leads: byList[lead.ListID],
		})
	}

	return groups
}

// SortListsLexicographic groups leads by list and orders the lists by list id
// compared as strings, so "102060d OH ALL" sorts before "96358". This string
// ordering is deliberate and load-bearing for the selection view.
func SortListsLexicographic(summaries []transport.ListSummary, leads []transport.RemoteLeadRecord) []ListGroup {
	groups := group(summaries, leads)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Summary.ListID < groups[j].Summary.ListID
	})
	return groups
}

// KeepInsertionOrder groups leads by list and preserves the order the lists
// arrived in from the catalogue, with synthesized lists appended last.
func KeepInsertionOrder(summaries []transport.ListSummary, leads []transport.RemoteLeadRecord) []ListGroup {
	return group(summaries, leads)
}

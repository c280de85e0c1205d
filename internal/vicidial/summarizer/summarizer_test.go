package summarizer

import (
	"testing"

	"vanguard_backend/internal/vicidial/transport"
)

func summary(listID, name string, saleCount int) transport.ListSummary {
	return transport.ListSummary{ListID: listID, ListName: name, SaleCount: saleCount, Active: true}
}

func saleLead(id, listID string) transport.RemoteLeadRecord {
	return transport.RemoteLeadRecord{ID: id, ListID: listID, Name: "Lead " + id, Phone: "555-" + id}
}

func TestGroup_EveryListAppearsOnceEvenWhenEmpty(t *testing.T) {
	summaries := []transport.ListSummary{
		summary("A", "Ohio", 0),
		summary("B", "Texas", 1),
	}
	leads := []transport.RemoteLeadRecord{saleLead("x1", "B")}

	groups := KeepInsertionOrder(summaries, leads)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Summary.ListID != "A" || len(groups[0].Leads) != 0 {
		t.Fatalf("empty list must still be present with zero leads, got %+v", groups[0])
	}
	if groups[0].Leads == nil {
		t.Fatal("empty list should carry an empty slice, not nil")
	}
	if groups[1].Summary.ListID != "B" || len(groups[1].Leads) != 1 {
		t.Fatalf("list B should hold its one lead, got %+v", groups[1])
	}
}

func TestGroup_EveryLeadAppearsExactlyOnce(t *testing.T) {
	summaries := []transport.ListSummary{summary("A", "Ohio", 2), summary("B", "Texas", 1)}
	leads := []transport.RemoteLeadRecord{
		saleLead("x1", "A"),
		saleLead("x2", "B"),
		saleLead("x3", "A"),
	}

	groups := KeepInsertionOrder(summaries, leads)

	counts := make(map[string]int)
	for _, g := range groups {
		for _, lead := range g.Leads {
			counts[lead.ID]++
			if lead.ListID != g.Summary.ListID {
				t.Errorf("lead %s filed under list %s", lead.ID, g.Summary.ListID)
			}
		}
	}
	for _, id := range []string{"x1", "x2", "x3"} {
		if counts[id] != 1 {
			t.Errorf("lead %s appears %d times, want 1", id, counts[id])
		}
	}
}

func TestGroup_SynthesizesListMissingFromCatalogue(t *testing.T) {
	summaries := []transport.ListSummary{summary("A", "Ohio", 0)}
	leads := []transport.RemoteLeadRecord{
		{ID: "x9", ListID: "Z", ListName: "Stray", Phone: "555-0009"},
	}

	groups := KeepInsertionOrder(summaries, leads)

	if len(groups) != 2 {
		t.Fatalf("expected the unknown list to be synthesized, got %d groups", len(groups))
	}
	stray := groups[1]
	if stray.Summary.ListID != "Z" || stray.Summary.ListName != "Stray" {
		t.Fatalf("synthesized summary wrong: %+v", stray.Summary)
	}
	if stray.Summary.SaleCount != 1 || len(stray.Leads) != 1 {
		t.Fatalf("synthesized list should hold its lead, got %+v", stray)
	}
}

func TestGroup_DeduplicatesRepeatedListSummaries(t *testing.T) {
	summaries := []transport.ListSummary{summary("A", "Ohio", 0), summary("A", "Ohio", 0)}

	groups := KeepInsertionOrder(summaries, nil)

	if len(groups) != 1 {
		t.Fatalf("expected one group for the repeated list id, got %d", len(groups))
	}
}

func TestSortListsLexicographic_StringOrderNotNumeric(t *testing.T) {
	summaries := []transport.ListSummary{
		summary("96358", "Numeric", 0),
		summary("102060d OH ALL", "Alnum", 0),
	}

	groups := SortListsLexicographic(summaries, nil)

	if groups[0].Summary.ListID != "102060d OH ALL" {
		t.Fatalf("expected lexicographic string order, got %s first", groups[0].Summary.ListID)
	}
}

func TestKeepInsertionOrder_PreservesCatalogueOrder(t *testing.T) {
	summaries := []transport.ListSummary{
		summary("96358", "Numeric", 0),
		summary("102060d OH ALL", "Alnum", 0),
	}

	groups := KeepInsertionOrder(summaries, nil)

	if groups[0].Summary.ListID != "96358" || groups[1].Summary.ListID != "102060d OH ALL" {
		t.Fatalf("insertion order not preserved: %s, %s", groups[0].Summary.ListID, groups[1].Summary.ListID)
	}
}

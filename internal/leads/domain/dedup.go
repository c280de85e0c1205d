package domain

import (
	"strings"

	"vanguard_backend/platform/phone"
)

// DuplicateIndex answers "have we already got this lead?" over a snapshot of
// LocalLeadRecords. A candidate is a duplicate when any of phone, DOT number,
// or external id matches an indexed record. Phone numbers are compared in
// E.164 form so formatting differences do not defeat the check.
//
// Known limitation, inherited behavior: two genuinely distinct companies
// sharing a phone number (e.g., a shared dispatch line) match as duplicates.
type DuplicateIndex struct {
	phones      map[string]struct{}
	dotNumbers  map[string]struct{}
	externalIDs map[string]struct{}
}

// NewDuplicateIndex builds an index over the given snapshot.
func NewDuplicateIndex(snapshot []LocalLeadRecord) *DuplicateIndex {
	idx := &DuplicateIndex{
		phones:      make(map[string]struct{}, len(snapshot)),
		dotNumbers:  make(map[string]struct{}, len(snapshot)),
		externalIDs: make(map[string]struct{}, len(snapshot)),
	}
	for i := range snapshot {
		idx.Add(&snapshot[i])
	}
	return idx
}

// Add indexes a record so later duplicate checks see it. The import loop
// calls this for every lead it commits, which is what makes duplicates
// within a single batch detectable.
func (idx *DuplicateIndex) Add(lead *LocalLeadRecord) {
	if key := phoneKey(lead.Phone); key != "" {
		idx.phones[key] = struct{}{}
	}
	if key := strings.TrimSpace(lead.DOTNumber); key != "" {
		idx.dotNumbers[key] = struct{}{}
	}
	if key := strings.TrimSpace(lead.ExternalID); key != "" {
		idx.externalIDs[key] = struct{}{}
	}
}

// IsDuplicate reports whether any of the candidate keys matches an indexed
// record.
func (idx *DuplicateIndex) IsDuplicate(phoneNumber, dotNumber, externalID string) bool {
	if key := phoneKey(phoneNumber); key != "" {
		if _, ok := idx.phones[key]; ok {
			return true
		}
	}
	if key := strings.TrimSpace(dotNumber); key != "" {
		if _, ok := idx.dotNumbers[key]; ok {
			return true
		}
	}
	if key := strings.TrimSpace(externalID); key != "" {
		if _, ok := idx.externalIDs[key]; ok {
			return true
		}
	}
	return false
}

func phoneKey(raw string) string {
	return phone.NormalizeE164(raw)
}

package ehtable

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the structural integrity of the tables and reports every
// problem found, not just the first. Dispatch assumes validated tables and
// performs no bounds checking of its own.
func (t *Tables) Validate() error {
	var result *multierror.Error

	for i, a := range t.Actions {
		id := uint32(i + 1)
		if int(a.Next) > len(t.Actions) {
			result = multierror.Append(result, fmt.Errorf(
				"action %d: next link %d out of range (have %d actions)",
				id, a.Next, len(t.Actions)))
		}
		if a.IsCatch() && int(a.ClauseID) > len(t.Types) {
			result = multierror.Append(result, fmt.Errorf(
				"action %d: catch clause %d out of range (have %d types)",
				id, a.ClauseID, len(t.Types)))
		}
		if a.IsFilter() {
			result = multierror.Append(result, t.validateFilter(id, a.ClauseID))
		}
	}

	// Every node is a potential list head, so a bounded walk from each node
	// finds any cycle introduced by a bad next link.
	for i := range t.Actions {
		steps := 0
		for listID := uint32(i + 1); listID != 0; {
			if int(listID) > len(t.Actions) {
				break // reported above
			}
			if steps++; steps > len(t.Actions) {
				result = multierror.Append(result, fmt.Errorf(
					"action %d: clause list contains a cycle", i+1))
				break
			}
			listID = t.Actions[listID-1].Next
		}
	}

	return result.ErrorOrNil()
}

func (t *Tables) validateFilter(actionID uint32, filterID int32) error {
	var result *multierror.Error

	start := int(-filterID - 1)
	if start >= len(t.Filters) {
		return fmt.Errorf("action %d: filter clause %d out of range (have %d filter entries)",
			actionID, filterID, len(t.Filters))
	}
	terminated := false
	for i := start; i < len(t.Filters); i++ {
		entry := t.Filters[i]
		if entry == 0 {
			terminated = true
			break
		}
		if entry < 0 || int(entry) > len(t.Types) {
			result = multierror.Append(result, fmt.Errorf(
				"action %d: filter entry %d out of range (have %d types)",
				actionID, entry, len(t.Types)))
			continue
		}
		if t.Types[entry-1] == nil {
			result = multierror.Append(result, fmt.Errorf(
				"action %d: filter entry %d names the catch-all type", actionID, entry))
		}
	}
	if !terminated {
		result = multierror.Append(result, fmt.Errorf(
			"action %d: filter sequence at %d is not zero-terminated", actionID, start))
	}
	return result.ErrorOrNil()
}

package domain

import "strings"

// ExitGateInput carries everything the exit gate needs to decide whether a
// visit may be closed: the confirmation that the gate card came back, plus an
// operator remark for every item that is not being returned, keyed by item code.
type ExitGateInput struct {
	CardReturned bool
	ItemRemarks  map[string]string
}

// ExitGateResult reports the gate decision. When Allowed is false,
// MissingRemarks lists the item codes of open borrow records that lack a
// non-empty remark.
type ExitGateResult struct {
	Allowed         bool
	CardOutstanding bool
	MissingRemarks  []string
}

// EvaluateExitGate decides whether a visit with the given open borrow records
// may be closed. Two independent conditions must hold: the gate card must be
// confirmed returned, and every open record must carry a non-empty remark
// explaining why the item is not coming back. The remark is an audit note, not
// a return; items without one block the exit.
func EvaluateExitGate(openRecords []BorrowRecord, input ExitGateInput) ExitGateResult {
	result := ExitGateResult{
		CardOutstanding: !input.CardReturned,
	}
	for _, rec := range openRecords {
		remark := strings.TrimSpace(input.ItemRemarks[rec.ItemCode])
		if remark == "" {
			result.MissingRemarks = append(result.MissingRemarks, rec.ItemCode)
		}
	}
	result.Allowed = input.CardReturned && len(result.MissingRemarks) == 0
	return result
}

package core

import "testing"

func TestOutcomeRecord_ClonePreservesHashListShape(t *testing.T) {
	empty := OutcomeRecord{TxHashes: []string{}}
	cloned := empty.Clone()
	if cloned.TxHashes == nil {
		t.Fatalf("expected empty hash list to stay non-nil after clone")
	}
	if len(cloned.TxHashes) != 0 {
		t.Fatalf("expected empty hash list, got %v", cloned.TxHashes)
	}

	absent := OutcomeRecord{}
	if absent.Clone().TxHashes != nil {
		t.Fatalf("expected absent hash list to stay nil after clone")
	}

	populated := OutcomeRecord{TxHashes: []string{"0xabc"}}
	cloned = populated.Clone()
	cloned.TxHashes[0] = "mutated"
	if populated.TxHashes[0] != "0xabc" {
		t.Fatalf("expected clone to own its hash slice")
	}
}

package oracle

import (
	"fmt"
	"testing"
)

func TestPromptLess(t *testing.T) {
	a := Prompt{Level: 1, Seq: 2, ID: 9}
	b := Prompt{Level: 2, Seq: 1, ID: 1}
	c := Prompt{Level: 1, Seq: 3, ID: 1}

	if !a.Less(b) {
		t.Error("level should order before seq")
	}
	if !a.Less(c) {
		t.Error("seq should order within a level")
	}
	if b.Less(a) {
		t.Error("Less is not antisymmetric")
	}
}

func TestDefaultBank_UniqueKeys(t *testing.T) {
	bank := DefaultBank()

	prompts := make(map[string]bool)
	for _, p := range bank.Prompts {
		key := fmt.Sprintf("%s/%d", p.Type, p.ID)
		if prompts[key] {
			t.Errorf("duplicate prompt key %s", key)
		}
		prompts[key] = true
	}

	tips := make(map[string]bool)
	for _, tip := range bank.Tips {
		key := fmt.Sprintf("%s/%d/%d", tip.Type, tip.Level, tip.Seq)
		if tips[key] {
			t.Errorf("duplicate tip key %s", key)
		}
		tips[key] = true
	}

	facts := make(map[string]bool)
	for _, f := range bank.Facts {
		key := fmt.Sprintf("%s/%d", f.Type, f.ID)
		if facts[key] {
			t.Errorf("duplicate fact key %s", key)
		}
		facts[key] = true
	}
}

package macro

import "testing"

func TestExpandSubstitutesParametersAndRenamesLabels(t *testing.T) {
	tab := New()
	d := &Definition{
		Name:   "incr",
		Params: []string{"reg"},
		Body:   []string{"retry:", "addi %reg,%reg,1", "beq %reg,$zero,retry"},
		Labels: []string{"retry"},
	}
	if err := tab.Define(d); err != nil {
		t.Fatalf("define: %v", err)
	}
	out, err := tab.Expand(d, []string{"$t0"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d lines, want 3", len(out))
	}
	if out[0] != "retry__incr_1:" {
		t.Fatalf("got %q, want renamed label", out[0])
	}
	if out[1] != "addi $t0,$t0,1" {
		t.Fatalf("got %q, want substituted parameter", out[1])
	}
	if out[2] != "beq $t0,$zero,retry__incr_1" {
		t.Fatalf("got %q, want substituted + renamed", out[2])
	}
}

func TestSecondExpansionGetsDistinctLabelSuffix(t *testing.T) {
	tab := New()
	d := &Definition{Name: "incr", Params: []string{"reg"},
		Body: []string{"retry:", "addi %reg,%reg,1"}, Labels: []string{"retry"}}
	_ = tab.Define(d)
	out1, _ := tab.Expand(d, []string{"$t0"})
	out2, _ := tab.Expand(d, []string{"$t1"})
	if out1[0] == out2[0] {
		t.Fatalf("expected distinct renamed labels across invocations, got %q twice", out1[0])
	}
}

func TestDirectRecursionIsError(t *testing.T) {
	tab := New()
	d := &Definition{Name: "loop", Params: nil, Body: []string{"loop"}} // body textually calls itself
	_ = tab.Define(d)
	tab.callStack = append(tab.callStack, d.key())
	if _, err := tab.Expand(d, nil); err == nil {
		t.Fatal("expected recursion error")
	}
}

func TestDuplicateMacroSameArityIsError(t *testing.T) {
	tab := New()
	d1 := &Definition{Name: "m", Params: []string{"a"}}
	d2 := &Definition{Name: "m", Params: []string{"b"}}
	if err := tab.Define(d1); err != nil {
		t.Fatalf("define d1: %v", err)
	}
	if err := tab.Define(d2); err == nil {
		t.Fatal("expected duplicate-arity error")
	}
}

func TestOverloadByArityIsAllowed(t *testing.T) {
	tab := New()
	one := &Definition{Name: "m", Params: []string{"a"}}
	two := &Definition{Name: "m", Params: []string{"a", "b"}}
	if err := tab.Define(one); err != nil {
		t.Fatalf("define one: %v", err)
	}
	if err := tab.Define(two); err != nil {
		t.Fatalf("define two: %v", err)
	}
}

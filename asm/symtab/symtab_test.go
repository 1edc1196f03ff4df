package symtab

import "testing"

func TestLocalShadowsGlobal(t *testing.T) {
	tab := New()
	if err := tab.DefineLocal("main", 0x00400000, false); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := tab.DefineGlobal("main"); err != nil {
		t.Fatalf("globl: %v", err)
	}
	tab.Reset()
	if err := tab.DefineLocal("main", 0x00400020, false); err != nil {
		t.Fatalf("redefine after reset: %v", err)
	}
	sym, ok := tab.Lookup("main")
	if !ok || sym.Address != 0x00400020 {
		t.Fatalf("expected local shadow at new address, got %v ok=%v", sym, ok)
	}
}

func TestDuplicateLocalLabelIsError(t *testing.T) {
	tab := New()
	if err := tab.DefineLocal("loop", 0x00400000, false); err != nil {
		t.Fatalf("first define: %v", err)
	}
	if err := tab.DefineLocal("loop", 0x00400004, false); err == nil {
		t.Fatal("expected duplicate-label error")
	}
}

func TestForwardReferencePatchResolves(t *testing.T) {
	tab := New()
	tab.AddPatch(Patch{Label: "done", PatchAddress: 0x00400000, Length: 16, PCRelative: true})
	var patched uint32
	unresolved, err := tab.Resolve(func(p Patch, addr uint32) error {
		patched = addr
		return nil
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(unresolved) != 1 {
		t.Fatalf("expected 1 unresolved (label not yet defined), got %d", len(unresolved))
	}
	if err := tab.DefineLocal("done", 0x00400040, false); err != nil {
		t.Fatalf("define done: %v", err)
	}
	tab.AddPatch(Patch{Label: "done", PatchAddress: 0x00400000, Length: 16, PCRelative: true})
	unresolved, err = tab.Resolve(func(p Patch, addr uint32) error {
		patched = addr
		return nil
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(unresolved) != 0 {
		t.Fatalf("expected all patches resolved, got %d remaining", len(unresolved))
	}
	if patched != 0x00400040 {
		t.Fatalf("got patched address %#x, want 0x00400040", patched)
	}
}

func TestGlobalExportRequiresLocalDefinition(t *testing.T) {
	tab := New()
	if err := tab.DefineGlobal("missing"); err == nil {
		t.Fatal("expected error exporting undefined symbol")
	}
}

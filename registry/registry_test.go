package registry

import "testing"

func TestRegisterWriteOnce(t *testing.T) {
	r := New()
	def := &StructDefinition{Type: 1, InMemSize: 4}
	if err := r.Register(def); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(def); err != ErrAlreadyRegistered {
		t.Fatalf("want ErrAlreadyRegistered, got %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	r := New()
	if _, err := r.Lookup(99); err != ErrUnknownType {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
}

func TestPopulatorHook(t *testing.T) {
	r := New()
	def := &StructDefinition{Type: 7}
	if err := r.Register(def); err != nil {
		t.Fatal(err)
	}
	calls := 0
	err := r.SetPopulator(7, func() (interface{}, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	v, err := r.Populate(7)
	if err != nil || v.(int) != 42 || calls != 1 {
		t.Fatalf("v=%v calls=%d err=%v", v, calls, err)
	}
}

func TestPopulatorCacheReusesWithinCycle(t *testing.T) {
	r := New()
	def := &StructDefinition{Type: 3}
	if err := r.Register(def); err != nil {
		t.Fatal(err)
	}
	calls := 0
	r.SetPopulator(3, func() (interface{}, error) {
		calls++
		return calls, nil
	})

	pc := NewPopulatorCache()
	v1, _ := pc.Get(r, 3)
	v2, _ := pc.Get(r, 3)
	if v1 != v2 || calls != 1 {
		t.Fatalf("expected single populate within a cycle, calls=%d v1=%v v2=%v", calls, v1, v2)
	}

	pc.EndCycle()
	v3, _ := pc.Get(r, 3)
	if calls != 2 || v3 == v1 {
		t.Fatalf("expected repopulate after EndCycle, calls=%d v3=%v", calls, v3)
	}
}

func TestFieldPrinterOverride(t *testing.T) {
	r := New()
	fields := []FieldDefinition{
		{Name: "x", TypeFuncs: &TypeFuncs{}},
	}
	def := &StructDefinition{Type: 5, Fields: fields}
	if err := r.Register(def); err != nil {
		t.Fatal(err)
	}
	if err := r.SetFieldPrinter(5, 0, func(v interface{}) string { return "overridden" }); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Lookup(5)
	gotFields := got.Fields.([]FieldDefinition)
	if gotFields[0].TypeFuncs.Print == nil || gotFields[0].TypeFuncs.Print(nil) != "overridden" {
		t.Fatal("printer override did not take effect")
	}
}

package render

import "testing"

func TestBuilderGrowsCapacity(t *testing.T) {
	b := NewBuilder(4)
	if b.Cap() != 4 {
		t.Fatalf("cap = %d, want 4", b.Cap())
	}
	b.WriteString("hello world, this is longer than four bytes")
	if b.Cap() < b.Len() {
		t.Fatalf("cap %d < len %d after growth", b.Cap(), b.Len())
	}
	if b.String() != "hello world, this is longer than four bytes" {
		t.Fatalf("got %q", b.String())
	}
}

func TestBuilderWriteByte(t *testing.T) {
	b := NewBuilder(0)
	for _, c := range []byte("abc") {
		if err := b.WriteByte(c); err != nil {
			t.Fatal(err)
		}
	}
	if b.String() != "abc" {
		t.Fatalf("got %q, want abc", b.String())
	}
}

func TestBuilderReset(t *testing.T) {
	b := NewBuilder(16)
	b.WriteString("data")
	capBefore := b.Cap()
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("len = %d, want 0 after reset", b.Len())
	}
	if b.Cap() != capBefore {
		t.Fatalf("cap changed across reset: %d -> %d", capBefore, b.Cap())
	}
}

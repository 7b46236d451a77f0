package libc

import "testing"

func TestMallocMemsetMemcpy(t *testing.T) {
	dst := Malloc(16)
	if dst == 0 {
		t.Fatal("Malloc(16) returned 0")
	}
	src := Malloc(16)
	if src == 0 {
		t.Fatal("Malloc(16) returned 0")
	}

	Memset(src, 0xAB, 16)
	Memcpy(dst, src, 16)

	got := bytesAt(dst, 16)
	for i, b := range got {
		if b != 0xAB {
			t.Fatalf("dst[%d] = %#x, want 0xab", i, b)
		}
	}
}

func TestCallocZeroFilled(t *testing.T) {
	p := Calloc(4, 8)
	if p == 0 {
		t.Fatal("Calloc(4, 8) returned 0")
	}
	for i, b := range bytesAt(p, 32) {
		if b != 0 {
			t.Fatalf("Calloc result[%d] = %#x, want 0", i, b)
		}
	}
}

func TestCalloc_OverflowRejected(t *testing.T) {
	const huge = 1 << 40
	if p := Calloc(huge, huge); p != 0 {
		t.Fatalf("Calloc overflow = %#x, want 0", p)
	}
}

func TestStrlenStrcpyStrcmp(t *testing.T) {
	src := Malloc(32)
	s := bytesAt(src, 6)
	copy(s, "hello\x00")

	if n := Strlen(src); n != 5 {
		t.Fatalf("Strlen = %d, want 5", n)
	}

	dst := Malloc(32)
	Strcpy(dst, src)
	if Strcmp(src, dst) != 0 {
		t.Fatal("Strcmp(src, dst) != 0 after Strcpy")
	}

	other := Malloc(32)
	o := bytesAt(other, 6)
	copy(o, "hellp\x00")
	if Strcmp(src, other) >= 0 {
		t.Fatal("Strcmp(\"hello\", \"hellp\") did not report src < other")
	}
}

func TestStrncpyPadsWithNUL(t *testing.T) {
	src := Malloc(8)
	copy(bytesAt(src, 2), "ab")

	dst := Malloc(8)
	Strncpy(dst, src, 5)

	got := bytesAt(dst, 5)
	want := []byte{'a', 'b', 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Strncpy result = %v, want %v", got, want)
		}
	}
}

func TestFree_IsNoOp(t *testing.T) {
	p := Malloc(8)
	Free(p) // must not panic, must not invalidate p
	bytesAt(p, 8)[0] = 0x42
	if bytesAt(p, 8)[0] != 0x42 {
		t.Fatal("memory became unusable after Free")
	}
}

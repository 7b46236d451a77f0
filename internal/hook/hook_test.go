package hook

import "testing"

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()

	r.Register("foo", 0x1000)
	snap := r.Snapshot()
	if addr, ok := snap["foo"]; !ok || addr != 0x1000 {
		t.Fatalf("Snapshot()[foo] = (%#x, %v), want (0x1000, true)", addr, ok)
	}

	r.Unregister("foo")
	snap = r.Snapshot()
	if _, ok := snap["foo"]; ok {
		t.Fatal("Snapshot()[foo] still present after Unregister")
	}
}

func TestRegistry_Register_Overwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("foo", 0x1000)
	r.Register("foo", 0x2000)

	if addr := r.Snapshot()["foo"]; addr != 0x2000 {
		t.Fatalf("Snapshot()[foo] = %#x, want 0x2000", addr)
	}
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	r.Register("foo", 0x1000)

	snap := r.Snapshot()

	r.Register("bar", 0x2000)
	r.Unregister("foo")

	if _, ok := snap["bar"]; ok {
		t.Fatal("earlier Snapshot() observed a registration made after it was taken")
	}
	if addr, ok := snap["foo"]; !ok || addr != 0x1000 {
		t.Fatalf("earlier Snapshot() was mutated by a later Unregister: foo = (%#x, %v)", addr, ok)
	}
}

func TestDefault_SingletonAcrossCalls(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default() returned different registries across calls")
	}
}

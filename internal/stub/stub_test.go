package stub

import "testing"

type fakeLibrary struct {
	symbols map[string]uintptr
	closed  bool
}

func (f *fakeLibrary) GetSymbol(name string) (uintptr, bool) {
	addr, ok := f.symbols[name]
	return addr, ok
}

func (f *fakeLibrary) Close() error {
	f.closed = true
	return nil
}

func withLoadFunc(t *testing.T, lib *fakeLibrary) {
	t.Helper()
	prev := LoadFunc
	LoadFunc = func(path string) (LoadedLibrary, error) { return lib, nil }
	t.Cleanup(func() { LoadFunc = prev })
}

func TestDlopenDlsymDlclose_Lifecycle(t *testing.T) {
	lib := &fakeLibrary{symbols: map[string]uintptr{"payload_init": 0x1234}}
	withLoadFunc(t, lib)

	h := dlopen("/tmp/whatever.so")
	if h == 0 {
		t.Fatal("dlopen: returned 0 handle on success")
	}

	if addr := dlsym(h, "payload_init"); addr != 0x1234 {
		t.Fatalf("dlsym(payload_init) = %#x, want 0x1234", addr)
	}
	if addr := dlsym(h, "missing_symbol"); addr != 0 {
		t.Fatalf("dlsym(missing_symbol) = %#x, want 0", addr)
	}

	if code := dlclose(h); code != 0 {
		t.Fatalf("dlclose: code = %d, want 0", code)
	}
	if !lib.closed {
		t.Fatal("dlclose did not close the underlying library")
	}
}

func TestDlclose_DoubleCloseForbidden(t *testing.T) {
	lib := &fakeLibrary{symbols: map[string]uintptr{}}
	withLoadFunc(t, lib)

	h := dlopen("/tmp/whatever.so")
	if code := dlclose(h); code != 0 {
		t.Fatalf("first dlclose: code = %d, want 0", code)
	}
	if code := dlclose(h); code == 0 {
		t.Fatal("second dlclose on an already-closed handle: code = 0, want nonzero")
	}
}

func TestDlsym_UnknownHandle(t *testing.T) {
	if addr := dlsym(0xDEADBEEF, "anything"); addr != 0 {
		t.Fatalf("dlsym with unknown handle = %#x, want 0", addr)
	}
	if addr := dlsym(0, "anything"); addr != 0 {
		t.Fatalf("dlsym(0, ...) = %#x, want 0", addr)
	}
}

func TestDlopen_NoLoadFunc(t *testing.T) {
	prev := LoadFunc
	LoadFunc = nil
	t.Cleanup(func() { LoadFunc = prev })

	if h := dlopen("/tmp/whatever.so"); h != 0 {
		t.Fatalf("dlopen with no LoadFunc = %#x, want 0", h)
	}
}

func TestNewHandle_NeverZeroAndUnique(t *testing.T) {
	seen := make(map[uintptr]bool)
	for i := 0; i < 64; i++ {
		h := newHandle()
		if h == 0 {
			t.Fatal("newHandle returned 0")
		}
		if seen[h] {
			t.Fatalf("newHandle returned a duplicate handle %#x", h)
		}
		seen[h] = true
		handlesMu.Lock()
		handles[h] = &fakeLibrary{}
		handlesMu.Unlock()
	}
	handlesMu.Lock()
	for h := range seen {
		delete(handles, h)
	}
	handlesMu.Unlock()
}

func TestIsPthreadSymbol(t *testing.T) {
	cases := map[string]bool{
		"pthread_create": true,
		"pthread_mutex_lock": true,
		"malloc": false,
		"dlopen": false,
	}
	for name, want := range cases {
		if got := IsPthreadSymbol(name); got != want {
			t.Errorf("IsPthreadSymbol(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestIsDlfcnSymbol(t *testing.T) {
	cases := map[string]bool{
		"dlopen":  true,
		"dlsym":   true,
		"dlclose": true,
		"malloc":  false,
	}
	for name, want := range cases {
		if got := IsDlfcnSymbol(name); got != want {
			t.Errorf("IsDlfcnSymbol(%q) = %v, want %v", name, got, want)
		}
	}
}

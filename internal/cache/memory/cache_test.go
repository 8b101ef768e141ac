package memory

import "testing"

func TestStore_SetAndGet(t *testing.T) {
	store := New[string]()

	store.Set("UA", "value")

	got, ok := store.Get("UA")
	if !ok {
		t.Error("Get() should return ok=true for existing key")
	}
	if got != "value" {
		t.Errorf("Get() = %v, want %v", got, "value")
	}
}

func TestStore_GetNonExistent(t *testing.T) {
	store := New[string]()

	got, ok := store.Get("non-existent")
	if ok {
		t.Error("Get() should return ok=false for non-existent key")
	}
	if got != "" {
		t.Errorf("Get() = %v, want zero value", got)
	}
}

func TestStore_Overwrite(t *testing.T) {
	store := New[int]()

	store.Set("key", 1)
	store.Set("key", 2)

	got, _ := store.Get("key")
	if got != 2 {
		t.Errorf("Get() = %v, want 2 after overwrite", got)
	}
}

func TestStore_Clear(t *testing.T) {
	store := New[string]()

	store.Set("a", "1")
	store.Set("b", "2")

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", store.Len())
	}
	if _, ok := store.Get("a"); ok {
		t.Error("Get() should miss after Clear()")
	}
}

func TestStore_MapValues(t *testing.T) {
	store := New[map[string]int]()

	store.Set("UA", map[string]int{"offer": 100})

	got, ok := store.Get("UA")
	if !ok || got["offer"] != 100 {
		t.Errorf("Get() = %v, %v", got, ok)
	}
}

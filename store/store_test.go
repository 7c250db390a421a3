package store_test

import (
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"flexclass/store"
)

func openAll(t *testing.T) map[string]store.KV {
	t.Helper()

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "progress.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]store.KV{
		"memory": store.NewMemory(),
		"sqlite": db,
	}
}

func TestKV(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Load("missing"); err != nil || ok {
				t.Fatalf("Load(missing) = ok %v, err %v", ok, err)
			}

			if err := kv.Save("a", "1"); err != nil {
				t.Fatal(err)
			}
			if err := kv.Save("a", "2"); err != nil {
				t.Fatal(err)
			}
			v, ok, err := kv.Load("a")
			if err != nil || !ok || v != "2" {
				t.Errorf("Load(a) = %q, %v, %v; want \"2\", true, nil", v, ok, err)
			}

			if err := kv.Save("empty", ""); err != nil {
				t.Fatal(err)
			}
			if v, ok, _ := kv.Load("empty"); !ok || v != "" {
				t.Errorf("Load(empty) = %q, %v", v, ok)
			}

			if err := kv.Delete("a"); err != nil {
				t.Fatal(err)
			}
			if err := kv.Delete("a"); err != nil {
				t.Errorf("second Delete() error = %v", err)
			}
			if _, ok, _ := kv.Load("a"); ok {
				t.Error("key still present after Delete()")
			}
		})
	}
}

func TestKV_KeysNaturalOrder(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"solution-10", "solution-2", "progress", "solution-1"} {
				if err := kv.Save(k, "x"); err != nil {
					t.Fatal(err)
				}
			}
			keys, err := kv.Keys()
			if err != nil {
				t.Fatal(err)
			}
			want := []string{"progress", "solution-1", "solution-2", "solution-10"}
			if !slices.Equal(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}
		})
	}
}

func TestSQLite_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	log := zaptest.NewLogger(t)

	db, err := store.OpenSQLite(path, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Save("key", "value"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := db.Save("key", "other"); err == nil {
		t.Error("Save() on closed store succeeded")
	}

	db, err = store.OpenSQLite(path, log)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if v, ok, err := db.Load("key"); err != nil || !ok || v != "value" {
		t.Errorf("Load() after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestOpen(t *testing.T) {
	kv, err := store.Open("memory", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := kv.(*store.Memory); !ok {
		t.Errorf("Open(memory) returned %T", kv)
	}

	kv, err = store.Open("sqlite", filepath.Join(t.TempDir(), "x.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	kv.Close()

	if _, err := store.Open("redis", "", nil); err == nil {
		t.Error("Open(redis) expected error")
	}
}

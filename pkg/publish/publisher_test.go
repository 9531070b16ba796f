package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func testBundle() *Bundle {
	return &Bundle{
		Name:   "lab",
		Script: []byte("#!/usr/bin/env python\n"),
		Artifacts: map[string][]byte{
			"5g-configs/amf.yaml": []byte("amf:\n"),
			"5g-configs/upf.yaml": []byte("upf:\n"),
		},
	}
}

func TestLocalStorePublish(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	loc, err := store.Publish(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	script, err := os.ReadFile(filepath.Join(loc, "topology.py"))
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if string(script) != "#!/usr/bin/env python\n" {
		t.Errorf("script content mismatch: %q", script)
	}

	for _, rel := range []string{"5g-configs/amf.yaml", "5g-configs/upf.yaml"} {
		if _, err := os.Stat(filepath.Join(loc, filepath.FromSlash(rel))); err != nil {
			t.Errorf("artifact %s not written: %v", rel, err)
		}
	}
}

func TestLocalStoreCancelledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Publish(ctx, testBundle()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestLocalStoreUnwritableBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(base, 0555); err != nil {
		t.Fatal(err)
	}
	store := NewLocalStore(base)

	if _, err := store.Publish(context.Background(), testBundle()); err == nil {
		t.Fatal("expected error for unwritable base dir")
	}
}

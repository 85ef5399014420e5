package services

import (
	"strings"
	"testing"
)

func TestPreviewCacheKey(t *testing.T) {
	assignments := []byte(`[{"slot_id":"photo","image_path":"uploads/a.png"}]`)

	k1 := PreviewCacheKey("tmpl-1|templates/base.png", assignments, 800)
	k2 := PreviewCacheKey("tmpl-1|templates/base.png", assignments, 800)
	if k1 != k2 {
		t.Fatalf("same inputs should hash to the same key: %q vs %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "preview:") {
		t.Fatalf("key should carry the preview prefix: %q", k1)
	}

	if k := PreviewCacheKey("tmpl-1|templates/base.png", assignments, 400); k == k1 {
		t.Fatalf("maxWidth must feed the key")
	}
	if k := PreviewCacheKey("tmpl-2|templates/base.png", assignments, 800); k == k1 {
		t.Fatalf("template identity must feed the key")
	}
	if k := PreviewCacheKey("tmpl-1|templates/base2.png", assignments, 800); k == k1 {
		t.Fatalf("base storage key must feed the key")
	}
	if k := PreviewCacheKey("tmpl-1|templates/base.png", []byte(`[]`), 800); k == k1 {
		t.Fatalf("assignments must feed the key")
	}
}

package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func testMediaStore(t *testing.T) MediaStore {
	t.Helper()
	t.Setenv("MEDIA_ROOT", t.TempDir())
	ms, err := NewMediaStore(testLoggerFor(t))
	if err != nil {
		t.Fatalf("NewMediaStore: %v", err)
	}
	return ms
}

func TestMediaStoreRoundTrip(t *testing.T) {
	ms := testMediaStore(t)

	key := "uploads/test/one.png"
	payload := []byte("not really a png")

	n, err := ms.SaveFile(key, bytes.NewReader(payload))
	if err != nil || n != int64(len(payload)) {
		t.Fatalf("SaveFile: n=%d err=%v", n, err)
	}
	if !ms.Exists(key) {
		t.Fatalf("Exists should be true after SaveFile")
	}

	data, err := ms.ReadFile(key)
	if err != nil || !bytes.Equal(data, payload) {
		t.Fatalf("ReadFile: data=%q err=%v", data, err)
	}

	if err := ms.DeleteFile(key); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if ms.Exists(key) {
		t.Fatalf("Exists should be false after DeleteFile")
	}
	if _, err := ms.ReadFile(key); err == nil {
		t.Fatalf("ReadFile should fail after DeleteFile")
	}
}

func TestMediaStoreAbsPathStaysUnderRoot(t *testing.T) {
	ms := testMediaStore(t)

	cases := []string{
		"uploads/a.png",
		"../escape.png",
		"../../etc/passwd",
		"uploads/../../escape.png",
		"/uploads/abs.png",
	}
	for _, key := range cases {
		abs := ms.AbsPath(key)
		if !strings.HasPrefix(abs, ms.Root()) {
			t.Fatalf("AbsPath(%q)=%q escapes root %q", key, abs, ms.Root())
		}
	}
}

func TestMediaStoreKeys(t *testing.T) {
	ms := testMediaStore(t)
	id := uuid.New()

	upload := ms.UploadKey(id, "Foto Final.JPEG")
	if !strings.HasPrefix(upload, "uploads/"+id.String()+"/") || !strings.HasSuffix(upload, ".jpeg") {
		t.Fatalf("UploadKey: %q", upload)
	}

	noExt := ms.UploadKey(id, "semextensao")
	if !strings.HasSuffix(noExt, ".png") {
		t.Fatalf("UploadKey without extension should default to .png: %q", noExt)
	}

	tmpl := ms.TemplateKey(id, "base.png")
	if !strings.HasPrefix(tmpl, "templates/"+id.String()+"/") {
		t.Fatalf("TemplateKey: %q", tmpl)
	}

	product := ms.ProductKey(id, "capa.webp")
	if !strings.HasPrefix(product, "products/"+id.String()+"/") || !strings.HasSuffix(product, ".webp") {
		t.Fatalf("ProductKey: %q", product)
	}

	render := ms.RenderKey(id, "final.png")
	if !strings.HasPrefix(render, "renders/"+id.String()+"/") || !strings.HasSuffix(render, "_final.png") {
		t.Fatalf("RenderKey: %q", render)
	}
}

func TestMediaStorePublicURL(t *testing.T) {
	ms := testMediaStore(t)
	if got := ms.PublicURL("renders/x/1_final.png"); got != "/media/renders/x/1_final.png" {
		t.Fatalf("PublicURL: %q", got)
	}
}

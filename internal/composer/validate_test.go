package composer

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func writeSolidImage(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(w, h, c)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save fixture %s: %v", name, err)
	}
	return path
}

// writePNGHeader writes just a PNG signature plus IHDR chunk. That is
// all DecodeConfig reads, so huge nominal dimensions cost no disk.
func writePNGHeader(t *testing.T, dir, name string, w, h uint32) string {
	t.Helper()

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.WriteString("IHDR")
	buf.Write(ihdr)
	crc := crc32.NewIEEE()
	crc.Write([]byte("IHDR"))
	crc.Write(ihdr)
	_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png header fixture: %v", err)
	}
	return path
}

func TestProbeDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "probe.png", 320, 240, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	w, h, err := ProbeDimensions(path)
	if err != nil {
		t.Fatalf("ProbeDimensions: %v", err)
	}
	if w != 320 || h != 240 {
		t.Fatalf("ProbeDimensions: got %dx%d, want 320x240", w, h)
	}

	jpgPath := writeSolidImage(t, dir, "probe.jpg", 64, 48, color.NRGBA{R: 200, A: 255})
	w, h, err = ProbeDimensions(jpgPath)
	if err != nil {
		t.Fatalf("ProbeDimensions jpeg: %v", err)
	}
	if w != 64 || h != 48 {
		t.Fatalf("ProbeDimensions jpeg: got %dx%d, want 64x48", w, h)
	}
}

func TestProbeDimensionsUndecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := ProbeDimensions(path); err == nil {
		t.Fatalf("ProbeDimensions: expected error for undecodable file")
	}
}

func TestValidateImageAccepts(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "good.png", 400, 300, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	v := ValidateImage(path, QualityLimits{MinWidth: 100, MinHeight: 100})
	if !v.Valid {
		t.Fatalf("ValidateImage: expected valid, got error %q", v.Error)
	}
	if v.Error != "" {
		t.Fatalf("ValidateImage: valid verdict carries error %q", v.Error)
	}
}

func TestValidateImageMissingFile(t *testing.T) {
	v := ValidateImage(filepath.Join(t.TempDir(), "nope.png"), QualityLimits{})
	if v.Valid {
		t.Fatalf("ValidateImage: expected invalid for missing file")
	}
	if !strings.Contains(v.Error, "cannot read image") {
		t.Fatalf("ValidateImage: unexpected error %q", v.Error)
	}
}

func TestValidateImageUndecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	v := ValidateImage(path, QualityLimits{})
	if v.Valid {
		t.Fatalf("ValidateImage: expected invalid for undecodable file")
	}
	if !strings.Contains(v.Error, "dimensions") {
		t.Fatalf("ValidateImage: unexpected error %q", v.Error)
	}
}

func TestValidateImageSizeBudget(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "big.png", 400, 300, color.NRGBA{R: 9, G: 9, B: 9, A: 255})

	v := ValidateImage(path, QualityLimits{MaxSizeMB: 0.00001})
	if v.Valid {
		t.Fatalf("ValidateImage: expected size rejection")
	}
	if !strings.Contains(v.Error, "exceeds limit") {
		t.Fatalf("ValidateImage: unexpected error %q", v.Error)
	}
}

func TestValidateImageMinDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "small.png", 200, 300, color.NRGBA{A: 255})

	v := ValidateImage(path, QualityLimits{MinWidth: 400})
	if v.Valid || !strings.Contains(v.Error, "width") || !strings.Contains(v.Error, "400") {
		t.Fatalf("ValidateImage: expected width rejection, got valid=%v error=%q", v.Valid, v.Error)
	}

	v = ValidateImage(path, QualityLimits{MinHeight: 600})
	if v.Valid || !strings.Contains(v.Error, "height") || !strings.Contains(v.Error, "600") {
		t.Fatalf("ValidateImage: expected height rejection, got valid=%v error=%q", v.Valid, v.Error)
	}
}

func TestValidateImageMegapixelCeiling(t *testing.T) {
	dir := t.TempDir()
	path := writePNGHeader(t, dir, "huge.png", 6000, 4000)

	// Generous caller limits must not bypass the ceiling.
	v := ValidateImage(path, QualityLimits{MaxSizeMB: 1000, MinWidth: 1, MinHeight: 1})
	if v.Valid {
		t.Fatalf("ValidateImage: expected megapixel rejection for 24MP image")
	}
	if !strings.Contains(v.Error, "megapixel") {
		t.Fatalf("ValidateImage: unexpected error %q", v.Error)
	}

	okPath := writePNGHeader(t, dir, "edge.png", 5000, 4000)
	v = ValidateImage(okPath, QualityLimits{})
	if !v.Valid {
		t.Fatalf("ValidateImage: 20MP exactly should pass, got %q", v.Error)
	}
}

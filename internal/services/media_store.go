package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

// MediaStore keeps every binary the pipeline touches (template bases,
// customer uploads, finished renders) on the local disk under
// MEDIA_ROOT. Keys are relative slash paths and double as the public
// /media/<key> route.
type MediaStore interface {
	SaveFile(key string, file io.Reader) (int64, error)
	ReadFile(key string) ([]byte, error)
	DeleteFile(key string) error
	Exists(key string) bool
	AbsPath(key string) string
	PublicURL(key string) string
	Root() string

	UploadKey(customizationID uuid.UUID, originalName string) string
	TemplateKey(templateID uuid.UUID, originalName string) string
	ProductKey(productID uuid.UUID, originalName string) string
	RenderKey(customizationID uuid.UUID, name string) string
}

type mediaStore struct {
	log        *logger.Logger
	root       string
	publicBase string
}

func NewMediaStore(log *logger.Logger) (MediaStore, error) {
	serviceLog := log.With("service", "MediaStore")

	root := strings.TrimSpace(os.Getenv("MEDIA_ROOT"))
	if root == "" {
		root = "./media"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve MEDIA_ROOT: %w", err)
	}

	for _, sub := range []string{"uploads", "templates", "renders"} {
		if err := os.MkdirAll(filepath.Join(abs, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", sub, err)
		}
	}

	publicBase := strings.TrimSpace(os.Getenv("MEDIA_PUBLIC_BASE"))
	if publicBase == "" {
		publicBase = "/media"
	}
	publicBase = strings.TrimRight(publicBase, "/")

	serviceLog.Info("Media store ready", "root", abs, "publicBase", publicBase)
	return &mediaStore{
		log:        serviceLog,
		root:       abs,
		publicBase: publicBase,
	}, nil
}

func (ms *mediaStore) SaveFile(key string, file io.Reader) (int64, error) {
	abs := ms.AbsPath(key)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, fmt.Errorf("create dir for %s: %w", key, err)
	}
	out, err := os.Create(abs)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", key, err)
	}
	n, err := io.Copy(out, file)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(abs)
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", key, err)
	}
	return n, nil
}

func (ms *mediaStore) ReadFile(key string) ([]byte, error) {
	data, err := os.ReadFile(ms.AbsPath(key))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (ms *mediaStore) DeleteFile(key string) error {
	if err := os.Remove(ms.AbsPath(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (ms *mediaStore) Exists(key string) bool {
	_, err := os.Stat(ms.AbsPath(key))
	return err == nil
}

func (ms *mediaStore) AbsPath(key string) string {
	// A leading slash before Clean strips any ".." prefix, so stored
	// keys cannot escape the root.
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(ms.root, clean)
}

func (ms *mediaStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", ms.publicBase, strings.TrimLeft(key, "/"))
}

func (ms *mediaStore) Root() string {
	return ms.root
}

// Versioned keys: regenerating never overwrites a previous object, so
// cached URLs stay valid until the row points elsewhere.

func (ms *mediaStore) UploadKey(customizationID uuid.UUID, originalName string) string {
	return fmt.Sprintf("uploads/%s/%d%s", customizationID.String(), time.Now().UnixNano(), keyExt(originalName))
}

func (ms *mediaStore) TemplateKey(templateID uuid.UUID, originalName string) string {
	return fmt.Sprintf("templates/%s/%d%s", templateID.String(), time.Now().UnixNano(), keyExt(originalName))
}

func (ms *mediaStore) ProductKey(productID uuid.UUID, originalName string) string {
	return fmt.Sprintf("products/%s/%d%s", productID.String(), time.Now().UnixNano(), keyExt(originalName))
}

func (ms *mediaStore) RenderKey(customizationID uuid.UUID, name string) string {
	return fmt.Sprintf("renders/%s/%d_%s", customizationID.String(), time.Now().UnixNano(), name)
}

func keyExt(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".png"
	}
	return ext
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"kycapi/internal/model"
)

// Logical buckets are key prefixes inside the single configured object-store bucket.
const (
	BucketPanCards       = "pan_cards"
	BucketAadharCards    = "aadhar_cards"
	BucketOtherDocuments = "other_documents"
	BucketArchived       = "archived"
)

const (
	metaOriginalName = "original-filename"
	metaOwnerID      = "owner-id"
	metaDocumentType = "document-type"
	metaArchiveFrom  = "archived-from"
	metaArchiveWhy   = "archive-reason"
)

// FileUpload is an incoming file stream with its declared attributes.
type FileUpload struct {
	Reader       io.Reader
	Size         int64
	OriginalName string
	MIMEType     string
}

// FileInfo describes a stored blob.
type FileInfo struct {
	FileName string
	FilePath string
	FileSize int64
	MIMEType string
}

// StatInfo reports whether a blob exists and its size.
type StatInfo struct {
	Exists  bool
	Size    int64
	ModTime time.Time
}

// BlobStore persists identity document files.
type BlobStore interface {
	Save(ctx context.Context, f FileUpload, ownerID string, docType model.DocumentType) (FileInfo, error)
	// Archive moves the blob under the archived prefix and returns its new path.
	Archive(ctx context.Context, filePath, reason string) (string, error)
	// Unarchive moves an archived blob back to filePath, undoing Archive.
	Unarchive(ctx context.Context, archivedPath, filePath string) error
	// Delete removes the blob; false means it did not exist.
	Delete(ctx context.Context, filePath string) (bool, error)
	Stat(ctx context.Context, filePath string) (StatInfo, error)
	PresignURL(ctx context.Context, filePath string, expiry time.Duration) (string, error)
}

// BucketFor maps a document type to its logical bucket.
func BucketFor(t model.DocumentType) string {
	switch t {
	case model.DocumentTypePAN:
		return BucketPanCards
	case model.DocumentTypeAadhar:
		return BucketAadharCards
	default:
		return BucketOtherDocuments
	}
}

// Blobs is the BlobStore backed by a Storage client.
type Blobs struct {
	store   Storage
	timeout time.Duration
	now     func() time.Time
	newID   func() string
	observe func(op string, took time.Duration)
}

// BlobOption configures Blobs.
type BlobOption func(*Blobs)

// WithTimeout bounds every storage call. Zero disables the bound.
func WithTimeout(d time.Duration) BlobOption {
	return func(b *Blobs) { b.timeout = d }
}

// WithClock overrides time.Now for archive key naming.
func WithClock(now func() time.Time) BlobOption {
	return func(b *Blobs) { b.now = now }
}

// WithObserver receives the duration of each storage operation.
func WithObserver(fn func(op string, took time.Duration)) BlobOption {
	return func(b *Blobs) { b.observe = fn }
}

func withIDGenerator(fn func() string) BlobOption {
	return func(b *Blobs) { b.newID = fn }
}

func NewBlobs(store Storage, opts ...BlobOption) *Blobs {
	b := &Blobs{
		store:   store,
		timeout: 15 * time.Second,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Blobs) Save(ctx context.Context, f FileUpload, ownerID string, docType model.DocumentType) (FileInfo, error) {
	if f.Reader == nil {
		return FileInfo{}, fmt.Errorf("save blob: empty file")
	}
	ext := strings.ToLower(path.Ext(f.OriginalName))
	name := b.newID() + ext
	key := path.Join(BucketFor(docType), ownerID, name)

	ctx, done := b.begin(ctx, "save")
	defer done()

	info, err := b.store.Put(ctx, key, f.Reader, PutObjectOptions{
		Size:        f.Size,
		ContentType: f.MIMEType,
		Metadata: map[string]string{
			metaOriginalName: f.OriginalName,
			metaOwnerID:      ownerID,
			metaDocumentType: string(docType),
		},
	})
	if err != nil {
		return FileInfo{}, fmt.Errorf("save blob %s: %w", key, err)
	}
	size := info.Size
	if size <= 0 {
		size = f.Size
	}
	return FileInfo{FileName: name, FilePath: key, FileSize: size, MIMEType: f.MIMEType}, nil
}

func (b *Blobs) Archive(ctx context.Context, filePath, reason string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("archive blob: empty path")
	}
	dst := path.Join(BucketArchived, fmt.Sprintf("%d_%s", b.now().UnixNano(), path.Base(filePath)))

	ctx, done := b.begin(ctx, "archive")
	defer done()

	if _, err := b.store.Copy(ctx, filePath, dst, map[string]string{
		metaArchiveFrom: filePath,
		metaArchiveWhy:  reason,
	}); err != nil {
		return "", fmt.Errorf("archive blob %s: %w", filePath, err)
	}
	if err := b.store.Delete(ctx, filePath); err != nil {
		return "", fmt.Errorf("archive blob %s: remove source: %w", filePath, err)
	}
	return dst, nil
}

func (b *Blobs) Unarchive(ctx context.Context, archivedPath, filePath string) error {
	if archivedPath == "" || filePath == "" {
		return fmt.Errorf("unarchive blob: empty path")
	}
	ctx, done := b.begin(ctx, "unarchive")
	defer done()

	if _, err := b.store.Copy(ctx, archivedPath, filePath, nil); err != nil {
		return fmt.Errorf("unarchive blob %s: %w", archivedPath, err)
	}
	if err := b.store.Delete(ctx, archivedPath); err != nil {
		return fmt.Errorf("unarchive blob %s: remove archived copy: %w", archivedPath, err)
	}
	return nil
}

func (b *Blobs) Delete(ctx context.Context, filePath string) (bool, error) {
	ctx, done := b.begin(ctx, "delete")
	defer done()

	if _, err := b.store.Stat(ctx, filePath); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete blob %s: %w", filePath, err)
	}
	if err := b.store.Delete(ctx, filePath); err != nil {
		return false, fmt.Errorf("delete blob %s: %w", filePath, err)
	}
	return true, nil
}

func (b *Blobs) Stat(ctx context.Context, filePath string) (StatInfo, error) {
	ctx, done := b.begin(ctx, "stat")
	defer done()

	info, err := b.store.Stat(ctx, filePath)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return StatInfo{}, nil
		}
		return StatInfo{}, fmt.Errorf("stat blob %s: %w", filePath, err)
	}
	return StatInfo{Exists: true, Size: info.Size, ModTime: info.LastModified}, nil
}

func (b *Blobs) PresignURL(ctx context.Context, filePath string, expiry time.Duration) (string, error) {
	ctx, done := b.begin(ctx, "presign")
	defer done()

	u, err := b.store.PresignGet(ctx, filePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign blob %s: %w", filePath, err)
	}
	return u, nil
}

func (b *Blobs) begin(ctx context.Context, op string) (context.Context, func()) {
	start := time.Now()
	cancel := func() {}
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
	}
	return ctx, func() {
		cancel()
		if b.observe != nil {
			b.observe(op, time.Since(start))
		}
	}
}

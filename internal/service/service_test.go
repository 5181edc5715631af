package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kycapi/internal/events"
	"kycapi/internal/model"
	"kycapi/internal/repository/memory"
	"kycapi/internal/storage"
	storeMocks "kycapi/internal/storage/mocks"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) ofType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	blobs    *storeMocks.MockBlobStore
	docs     *memory.DocumentMemory
	profiles *memory.ProfileMemory
	events   *recordingPublisher
	deps     Deps

	documents    DocumentService
	verification VerificationService
	reviews      ReviewService
	profileSvc   ProfileService
	reports      ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		blobs:    new(storeMocks.MockBlobStore),
		docs:     memory.NewDocumentMemory(),
		profiles: memory.NewProfileMemory(),
		events:   &recordingPublisher{},
	}
	e.deps = Deps{
		Blobs:     e.blobs,
		Documents: e.docs,
		Profiles:  e.profiles,
		Events:    e.events,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     func() time.Time { return fixedNow },
	}
	e.rebuild()
	return e
}

// rebuild re-creates the services after deps were changed by a test.
func (e *testEnv) rebuild() {
	e.documents = NewDocumentService(e.deps)
	e.verification = NewVerificationService(e.deps)
	e.reviews = NewReviewService(e.deps)
	e.profileSvc = NewProfileService(e.deps)
	e.reports = NewReportService(e.deps)
}

// expectBlobs wires Save and Archive to produce unique, predictable paths.
func (e *testEnv) expectBlobs() {
	var saved, archived atomic.Int64
	e.blobs.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		func(_ context.Context, f storage.FileUpload, owner string, t model.DocumentType) storage.FileInfo {
			name := fmt.Sprintf("f%d%s", saved.Add(1), strings.ToLower(path.Ext(f.OriginalName)))
			return storage.FileInfo{
				FileName: name,
				FilePath: path.Join(storage.BucketFor(t), owner, name),
				FileSize: f.Size,
				MIMEType: f.MIMEType,
			}
		}, nil).Maybe()
	e.blobs.On("Archive", mock.Anything, mock.Anything, mock.Anything).Return(
		func(_ context.Context, filePath, _ string) string {
			return fmt.Sprintf("archived/%d_%s", archived.Add(1), path.Base(filePath))
		}, nil).Maybe()
}

func pdf(name string) storage.FileUpload {
	return storage.FileUpload{
		Reader:       strings.NewReader("%PDF-1.4"),
		Size:         8,
		OriginalName: name,
		MIMEType:     "application/pdf",
	}
}

func (e *testEnv) upload(t *testing.T, owner string, docType model.DocumentType) *model.IdentityDocument {
	t.Helper()
	doc, err := e.documents.Upload(context.Background(), UploadInput{
		OwnerID:      owner,
		DocumentType: string(docType),
		File:         pdf(string(docType) + ".pdf"),
	})
	require.NoError(t, err)
	return doc
}

func (e *testEnv) verify(t *testing.T, docID string) {
	t.Helper()
	_, err := e.verification.VerifyDocument(context.Background(), VerifyInput{
		DocumentID: docID,
		VerifiedBy: "admin-1",
		Decision:   "verified",
	})
	require.NoError(t, err)
}

func (e *testEnv) profile(t *testing.T, owner string) *model.Profile {
	t.Helper()
	p, err := e.profiles.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	return p
}

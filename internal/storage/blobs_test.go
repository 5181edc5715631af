package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kycapi/internal/model"
	"kycapi/internal/storage"
	"kycapi/internal/storage/mocks"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newBlobs(st *mocks.MockStorage, opts ...storage.BlobOption) *storage.Blobs {
	base := []storage.BlobOption{
		storage.WithClock(func() time.Time { return fixedNow }),
		storage.WithIDGenerator(func() string { return "f1" }),
	}
	return storage.NewBlobs(st, append(base, opts...)...)
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, "pan_cards", storage.BucketFor(model.DocumentTypePAN))
	assert.Equal(t, "aadhar_cards", storage.BucketFor(model.DocumentTypeAadhar))
	assert.Equal(t, "other_documents", storage.BucketFor(model.DocumentTypePassport))
	assert.Equal(t, "other_documents", storage.BucketFor(model.DocumentTypeOther))
}

func TestBlobs_Save(t *testing.T) {
	tests := []struct {
		name       string
		docType    model.DocumentType
		setupMocks func(st *mocks.MockStorage)
		wantPath   string
		wantErr    bool
	}{
		{
			name:    "pan card goes to pan bucket",
			docType: model.DocumentTypePAN,
			setupMocks: func(st *mocks.MockStorage) {
				st.On("Put", mock.Anything, "pan_cards/owner-1/f1.pdf", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == "application/pdf" && o.Metadata["original-filename"] == "Scan.PDF" && o.Metadata["owner-id"] == "owner-1"
				})).Return(storage.ObjectInfo{Size: 4}, nil).Once()
			},
			wantPath: "pan_cards/owner-1/f1.pdf",
		},
		{
			name:    "passport goes to other bucket",
			docType: model.DocumentTypePassport,
			setupMocks: func(st *mocks.MockStorage) {
				st.On("Put", mock.Anything, "other_documents/owner-1/f1.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, nil).Once()
			},
			wantPath: "other_documents/owner-1/f1.pdf",
		},
		{
			name:    "backend failure",
			docType: model.DocumentTypeAadhar,
			setupMocks: func(st *mocks.MockStorage) {
				st.On("Put", mock.Anything, "aadhar_cards/owner-1/f1.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("boom")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := new(mocks.MockStorage)
			tc.setupMocks(st)
			b := newBlobs(st)

			info, err := b.Save(context.Background(), storage.FileUpload{
				Reader:       strings.NewReader("data"),
				Size:         4,
				OriginalName: "Scan.PDF",
				MIMEType:     "application/pdf",
			}, "owner-1", tc.docType)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantPath, info.FilePath)
				assert.Equal(t, "f1.pdf", info.FileName)
				assert.Equal(t, int64(4), info.FileSize)
			}
			st.AssertExpectations(t)
		})
	}
}

func TestBlobs_Archive(t *testing.T) {
	st := new(mocks.MockStorage)
	dst := "archived/" + "1740823200000000000_f1.pdf"
	st.On("Copy", mock.Anything, "pan_cards/o/f1.pdf", dst, map[string]string{
		"archived-from":  "pan_cards/o/f1.pdf",
		"archive-reason": "replaced",
	}).Return(storage.ObjectInfo{Key: dst}, nil).Once()
	st.On("Delete", mock.Anything, "pan_cards/o/f1.pdf").Return(nil).Once()

	got, err := newBlobs(st).Archive(context.Background(), "pan_cards/o/f1.pdf", "replaced")

	require.NoError(t, err)
	assert.Equal(t, dst, got)
	st.AssertExpectations(t)
}

func TestBlobs_Archive_CopyFails(t *testing.T) {
	st := new(mocks.MockStorage)
	st.On("Copy", mock.Anything, "pan_cards/o/f1.pdf", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()

	_, err := newBlobs(st).Archive(context.Background(), "pan_cards/o/f1.pdf", "deleted")

	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBlobs_Unarchive(t *testing.T) {
	t.Run("copies back and drops the archived copy", func(t *testing.T) {
		st := new(mocks.MockStorage)
		st.On("Copy", mock.Anything, "archived/1_f1.pdf", "pan_cards/o/f1.pdf", map[string]string(nil)).
			Return(storage.ObjectInfo{Key: "pan_cards/o/f1.pdf"}, nil).Once()
		st.On("Delete", mock.Anything, "archived/1_f1.pdf").Return(nil).Once()

		require.NoError(t, newBlobs(st).Unarchive(context.Background(), "archived/1_f1.pdf", "pan_cards/o/f1.pdf"))
		st.AssertExpectations(t)
	})

	t.Run("copy failure keeps the archived copy", func(t *testing.T) {
		st := new(mocks.MockStorage)
		st.On("Copy", mock.Anything, "archived/1_f1.pdf", "pan_cards/o/f1.pdf", mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("boom")).Once()

		assert.Error(t, newBlobs(st).Unarchive(context.Background(), "archived/1_f1.pdf", "pan_cards/o/f1.pdf"))
		st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, newBlobs(new(mocks.MockStorage)).Unarchive(context.Background(), "", "pan_cards/o/f1.pdf"))
	})
}

func TestBlobs_Delete(t *testing.T) {
	t.Run("missing object", func(t *testing.T) {
		st := new(mocks.MockStorage)
		st.On("Stat", mock.Anything, "k").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()

		ok, err := newBlobs(st).Delete(context.Background(), "k")

		assert.NoError(t, err)
		assert.False(t, ok)
		st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("existing object", func(t *testing.T) {
		st := new(mocks.MockStorage)
		st.On("Stat", mock.Anything, "k").Return(storage.ObjectInfo{Size: 1}, nil).Once()
		st.On("Delete", mock.Anything, "k").Return(nil).Once()

		ok, err := newBlobs(st).Delete(context.Background(), "k")

		assert.NoError(t, err)
		assert.True(t, ok)
		st.AssertExpectations(t)
	})
}

func TestBlobs_Stat(t *testing.T) {
	st := new(mocks.MockStorage)
	st.On("Stat", mock.Anything, "gone").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound).Once()
	st.On("Stat", mock.Anything, "here").Return(storage.ObjectInfo{Size: 9, LastModified: fixedNow}, nil).Once()
	b := newBlobs(st)

	gone, err := b.Stat(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, gone.Exists)

	here, err := b.Stat(context.Background(), "here")
	require.NoError(t, err)
	assert.Equal(t, storage.StatInfo{Exists: true, Size: 9, ModTime: fixedNow}, here)
}

func TestBlobs_TimeoutAndObserver(t *testing.T) {
	st := new(mocks.MockStorage)
	st.On("PresignGet", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "k", time.Minute).Return("https://signed", nil).Once()

	var ops []string
	b := newBlobs(st,
		storage.WithTimeout(time.Second),
		storage.WithObserver(func(op string, _ time.Duration) { ops = append(ops, op) }),
	)

	u, err := b.PresignURL(context.Background(), "k", time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "https://signed", u)
	assert.Equal(t, []string{"presign"}, ops)
}

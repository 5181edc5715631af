package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"kycapi/internal/model"
	"kycapi/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Copy(ctx context.Context, src, dst string, metadata map[string]string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, src, dst, metadata)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Save(ctx context.Context, f storage.FileUpload, ownerID string, docType model.DocumentType) (storage.FileInfo, error) {
	args := m.Called(ctx, f, ownerID, docType)
	if fn, ok := args.Get(0).(func(context.Context, storage.FileUpload, string, model.DocumentType) storage.FileInfo); ok {
		return fn(ctx, f, ownerID, docType), args.Error(1)
	}
	return args.Get(0).(storage.FileInfo), args.Error(1)
}

func (m *MockBlobStore) Archive(ctx context.Context, filePath, reason string) (string, error) {
	args := m.Called(ctx, filePath, reason)
	if fn, ok := args.Get(0).(func(context.Context, string, string) string); ok {
		return fn(ctx, filePath, reason), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Unarchive(ctx context.Context, archivedPath, filePath string) error {
	args := m.Called(ctx, archivedPath, filePath)
	return args.Error(0)
}

func (m *MockBlobStore) Delete(ctx context.Context, filePath string) (bool, error) {
	args := m.Called(ctx, filePath)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) Stat(ctx context.Context, filePath string) (storage.StatInfo, error) {
	args := m.Called(ctx, filePath)
	return args.Get(0).(storage.StatInfo), args.Error(1)
}

func (m *MockBlobStore) PresignURL(ctx context.Context, filePath string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, filePath, expiry)
	return args.String(0), args.Error(1)
}

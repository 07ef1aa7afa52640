package filestorage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpload(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}

func newTestStorage(t *testing.T, start time.Time) *LocalStorage {
	t.Helper()

	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	current := start
	ls.now = func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
	return ls
}

func TestLocalStorage_StoreNamesByFieldAndTime(t *testing.T) {
	start := time.UnixMilli(1700000000000)
	ls := newTestStorage(t, start)

	name, err := ls.Store(FieldResume, newUpload(t, "resume", "My CV.PDF", "resume-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "resume-1700000000000.pdf", name)

	data, err := os.ReadFile(filepath.Join(ls.BasePath(), "appliedJobs", "resumes", name))
	require.NoError(t, err)
	assert.Equal(t, "resume-bytes", string(data))
}

func TestLocalStorage_StoreCollisionMovesToNextMillisecond(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ls.now = func() time.Time { return time.UnixMilli(5000) }

	first, err := ls.Store(FieldCV, newUpload(t, "cv", "a.pdf", "a"))
	require.NoError(t, err)
	second, err := ls.Store(FieldCV, newUpload(t, "cv", "b.pdf", "b"))
	require.NoError(t, err)

	assert.Equal(t, "cv-5000.pdf", first)
	assert.Equal(t, "cv-5001.pdf", second)
}

func TestLocalStorage_ReplaceRemovesPrevious(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1700000000000))

	oldName, err := ls.Store(FieldPhoto, newUpload(t, "photo", "old.png", "old"))
	require.NoError(t, err)

	var committed string
	newName, err := ls.Replace(FieldPhoto, newUpload(t, "photo", "new.png", "new"), oldName, func(name string) error {
		committed = name
		return nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldName, newName)
	assert.Equal(t, newName, committed)

	entries, err := os.ReadDir(filepath.Join(ls.BasePath(), "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, newName, entries[0].Name())
}

func TestLocalStorage_ReplaceToleratesMissingPrevious(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1700000000000))

	newName, err := ls.Replace(FieldJobImage, newUpload(t, "jobImage", "job.jpg", "img"), "jobImage-1.jpg", nil)
	require.NoError(t, err)
	assert.FileExists(t, ls.Path(FieldJobImage, newName))
}

func TestLocalStorage_ReplaceKeepsPreviousWhenCommitFails(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1700000000000))

	oldName, err := ls.Store(FieldCV, newUpload(t, "cv", "old.pdf", "old"))
	require.NoError(t, err)

	_, err = ls.Replace(FieldCV, newUpload(t, "cv", "new.pdf", "new"), oldName, func(string) error {
		return errors.New("row update failed")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(ls.BasePath(), "cvs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, oldName, entries[0].Name())
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1700000000000))

	name, err := ls.Store(FieldWorkshopImage, newUpload(t, "workshopImage", "w.jpg", "w"))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(FieldWorkshopImage, name))
	assert.NoFileExists(t, ls.Path(FieldWorkshopImage, name))
	require.NoError(t, ls.Delete(FieldWorkshopImage, name))
	require.NoError(t, ls.Delete(FieldWorkshopImage, ""))
}

func TestLocalStorage_PathStaysInCategory(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1))

	assert.Equal(t, filepath.Join(ls.BasePath(), "admins", "passwd"), ls.Path(FieldAdminPhoto, "../../etc/passwd"))
	assert.Equal(t, "", ls.Path(Field("unknown"), "x.png"))
	assert.Equal(t, "", ls.Path(FieldAdminPhoto, ".."))
}

func TestLocalStorage_StoreRejectsUnknownField(t *testing.T) {
	ls := newTestStorage(t, time.UnixMilli(1))

	_, err := ls.Store(Field("avatar"), newUpload(t, "avatar", "a.png", "a"))
	assert.Error(t, err)

	_, err = ls.Store(FieldPhoto, nil)
	assert.Error(t, err)
}

type failingCloser struct {
	*os.File
	closeErr error
}

func (f *failingCloser) Close() error {
	_ = f.File.Close()
	return f.closeErr
}

func TestWriteFile_CloseFailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv-1.pdf")
	file, err := os.Create(path)
	require.NoError(t, err)

	err = writeFile(&failingCloser{File: file, closeErr: errors.New("disk full")}, path, bytes.NewBufferString("content"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.NoFileExists(t, path)
}

func TestWriteFile_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv-2.pdf")
	file, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, writeFile(file, path, bytes.NewBufferString("content")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

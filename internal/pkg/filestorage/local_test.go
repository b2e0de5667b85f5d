package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a multipart body.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("photo", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["photo"][0]
}

func TestSaveFileWithPath(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base)
	require.NoError(t, err)

	name, err := ls.SaveFileWithPath(fileHeader(t, "Me.JPG", []byte("img")), "students", "student_")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "student_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.True(t, ls.Exists("students", name))

	data, err := os.ReadFile(filepath.Join(base, "students", name))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestSaveFileWithPath_UniqueNames(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	a, err := ls.SaveFileWithPath(fileHeader(t, "a.png", []byte("1")), "students", "student_")
	require.NoError(t, err)
	b, err := ls.SaveFileWithPath(fileHeader(t, "a.png", []byte("2")), "students", "student_")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeleteFile_Idempotent(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := ls.SaveFileWithPath(fileHeader(t, "x.gif", []byte("g")), "students", "student_")
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile("students", name))
	assert.False(t, ls.Exists("students", name))
	assert.NoError(t, ls.DeleteFile("students", name))
}

func TestGetFullPath_StaysInsideBase(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base)
	require.NoError(t, err)

	p := ls.GetFullPath("students", "../../etc/passwd")
	assert.Equal(t, filepath.Join(base, "students", "passwd"), p)
	assert.Equal(t, "", ls.GetFullPath("students", ".."))
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(fileHeader(t, "a.JPEG", []byte("x")), 10))
	assert.ErrorIs(t, ValidateImage(fileHeader(t, "a.exe", []byte("x")), 10), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateImage(fileHeader(t, "a.png", []byte("toolarge")), 3), ErrFileTooLarge)
	assert.ErrorIs(t, ValidateImage(nil, 10), ErrNoFile)
}

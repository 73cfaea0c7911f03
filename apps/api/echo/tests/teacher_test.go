package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuku/academia/core/teacher"
)

// newTeacherForm builds a multipart request; filename may be empty for no upload.
func newTeacherForm(t *testing.T, method, path, token string, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("credentials", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func teacherFields(name, email string) map[string]string {
	return map[string]string{
		"name":          name,
		"phone":         "0803 555 0110",
		"email":         email,
		"qualification": "HND Fashion Technology",
		"subject":       "Pattern Drafting",
	}
}

func Test_teacherApi_create(t *testing.T) {
	db.Reset()
	token := getToken(t)

	t.Run("Missing required fields", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token, map[string]string{"email": "x@test.cd"}, "", nil)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "name")
		assert.Contains(t, fldErrs, "phone")
	})

	t.Run("OK with credentials file", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token,
			teacherFields("Ngozi Ade", "ngozi@test.cd"), "ngozi cv.pdf", []byte("%PDF-1.4"))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var tch teacher.Teacher
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tch))
		assert.NotEmpty(t, tch.ID)
		assert.Equal(t, "Ngozi Ade", tch.Name)
		assert.Equal(t, "ngozi@test.cd", tch.Email)
		assert.Equal(t, "ngozi_cv.pdf", tch.CredentialsFile)

		// stored on disk under the teacher's own directory
		_, err := os.Stat(filepath.Join(conf.Uploads.Dir, tch.ID, tch.CredentialsFile))
		assert.NoError(t, err)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token,
			teacherFields("Other Person", "NGOZI@test.cd"), "", nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a teacher with this email already exists"}),
		}, rec)
	})

	t.Run("Unsupported file type is skipped", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token,
			teacherFields("Bola Sanni", "bola@test.cd"), "virus.exe", []byte("MZ"))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var tch teacher.Teacher
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tch))
		assert.Empty(t, tch.CredentialsFile)
	})

	t.Run("No upload", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token,
			teacherFields(" Word Teacher", ""), "", nil)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var tch teacher.Teacher
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tch))
		assert.Empty(t, tch.CredentialsFile)
	})

	t.Run("Form page", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/add_teacher", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func Test_teacherApi_listViewUpdateDelete(t *testing.T) {
	db.Reset()
	token := getToken(t)

	req, rec := newTeacherForm(t, http.MethodPost, "/add_teacher", token,
		teacherFields("Ngozi Ade", "ngozi@test.cd"), "cv.pdf", []byte("%PDF-1.4"))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tch teacher.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tch))

	t.Run("List", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/teachers", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, tch)}, rec)
	})

	t.Run("View", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/view_teacher/"+tch.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, tch)}, rec)
	})

	t.Run("Update replaces credentials file", func(t *testing.T) {
		req, rec := newTeacherForm(t, http.MethodPost, "/edit_teacher/"+tch.ID, token,
			map[string]string{"subject": "Garment Finishing"}, "new cv.docx", []byte("PK"))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got teacher.Teacher
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Garment Finishing", got.Subject)
		assert.Equal(t, tch.Name, got.Name) // blank fields keep their value
		assert.Equal(t, "new_cv.docx", got.CredentialsFile)

		_, err := os.Stat(filepath.Join(conf.Uploads.Dir, tch.ID, "new_cv.docx"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(conf.Uploads.Dir, tch.ID, "cv.pdf"))
		assert.True(t, os.IsNotExist(err)) // old file is gone

		tch = got
	})

	t.Run("Delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/delete_teacher/"+tch.ID, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/view_teacher/"+tch.ID, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		_, err := os.Stat(filepath.Join(conf.Uploads.Dir, tch.ID))
		assert.True(t, os.IsNotExist(err)) // upload dir pruned
	})
}

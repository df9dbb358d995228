package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dream-society/unity-nest/internal/bulkimport"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows []bulkimport.Record
	logs []model.BulkUploadLog
}

func (m *memStore) ExistsAll(_ context.Context, _ bulkimport.EntityType, key map[string]string) (bool, error) {
	for _, rec := range m.rows {
		match := true
		for k, v := range key {
			if rec[k] != v {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsAny(_ context.Context, _ bulkimport.EntityType, key map[string]string) (bool, error) {
	for _, rec := range m.rows {
		for k, v := range key {
			if v != "" && rec[k] == v {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) Insert(_ context.Context, _ bulkimport.EntityType, rec bulkimport.Record) error {
	m.rows = append(m.rows, rec)
	return nil
}

func (m *memStore) UserExists(_ context.Context, email, phone string) (bool, error) {
	return m.ExistsAny(context.Background(), bulkimport.EntityUsers, map[string]string{"email": email, "phone": phone})
}

func (m *memStore) CreateCompositeUser(_ context.Context, cu *bulkimport.CompositeUser) error {
	m.rows = append(m.rows, bulkimport.Record{"email": cu.User.Email, "phone": cu.User.Phone})
	return nil
}

func (m *memStore) CreateLog(_ context.Context, entry *model.BulkUploadLog) error {
	entry.ID = uuid.New()
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *memStore) ListLogs(_ context.Context) ([]model.BulkUploadLog, error) {
	return m.logs, nil
}

func newTestRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	importer := bulkimport.NewService(store, store, store)
	h := NewAdminHandler(importer, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Set("user_role", model.RoleAdmin)
	})

	admin := router.Group("/api/admin")
	admin.POST("/bulk-upload", h.BulkUpload)
	admin.POST("/bulk-upload-users", h.BulkUploadUsers)
	admin.GET("/bulk-upload-logs", h.BulkUploadLogs)

	return router
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestBulkUploadSkills(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	userID := uuid.New().String()
	csv := "user_id,skill_name,endorsed_by\n" +
		userID + ",Go,\n" +
		userID + ",Go,\n" + // duplicate, skipped
		",Python,\n" // missing user_id, failure

	body, contentType := multipartUpload(t, "skills.csv", []byte(csv), map[string]string{
		"model": "skills",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bulk-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success int                   `json:"success"`
		Failure int                   `json:"failure"`
		Skipped int                   `json:"skipped"`
		Errors  []bulkimport.RowError `json:"errors"`
		Log     *model.BulkUploadLog  `json:"log"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Success)
	assert.Equal(t, 1, resp.Failure)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.Errors, 2)

	require.NotNil(t, resp.Log)
	assert.Equal(t, 3, resp.Log.TotalRecords)
	assert.Equal(t, 1, resp.Log.SuccessCount)
	assert.Equal(t, 2, resp.Log.FailureCount)

	require.Len(t, store.logs, 1)
}

func TestBulkUploadUnknownEntity(t *testing.T) {
	router := newTestRouter(&memStore{})

	body, contentType := multipartUpload(t, "data.csv", []byte("a,b\n1,2\n"), map[string]string{
		"model": "unicorns",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bulk-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkUploadEntitySelectors(t *testing.T) {
	userID := uuid.New().String()
	csv := "user_id,skill_name,endorsed_by\n" + userID + ",Go,\n"

	cases := []struct {
		name   string
		target string
		fields map[string]string
	}{
		{"model query param", "/api/admin/bulk-upload?model=skills", nil},
		{"entity_type alias", "/api/admin/bulk-upload", map[string]string{"entity_type": "skills"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&memStore{})

			body, contentType := multipartUpload(t, "skills.csv", []byte(csv), tc.fields)

			req := httptest.NewRequest(http.MethodPost, tc.target, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		})
	}
}

func TestBulkUploadMissingFile(t *testing.T) {
	router := newTestRouter(&memStore{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("model", "skills"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bulk-upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkUploadUsersRejectsJSON(t *testing.T) {
	router := newTestRouter(&memStore{})

	body, contentType := multipartUpload(t, "users.json", []byte(`[{"email":"a@b.c"}]`), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bulk-upload-users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkUploadUsersCSV(t *testing.T) {
	store := &memStore{}
	router := newTestRouter(store)

	csv := "full_name,email,phone,password\n" +
		"Anil Kumar,anil@example.com,9000000001,secret123\n" +
		"Anil Kumar,anil@example.com,9000000001,secret123\n"

	body, contentType := multipartUpload(t, "users.csv", []byte(csv), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bulk-upload-users", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success int `json:"success"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Success)
	assert.Equal(t, 1, resp.Skipped)
}

func TestBulkUploadLogsEndpoint(t *testing.T) {
	store := &memStore{
		logs: []model.BulkUploadLog{{ID: uuid.New(), Filename: "skills.csv", TotalRecords: 3}},
	}
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bulk-upload-logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Logs []model.BulkUploadLog `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "skills.csv", resp.Logs[0].Filename)
}

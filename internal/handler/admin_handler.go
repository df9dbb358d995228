package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dream-society/unity-nest/internal/bulkimport"
	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/service"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/dream-society/unity-nest/pkg/response"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 20 << 20

type AdminHandler struct {
	importer *bulkimport.Service
	admin    service.AdminService
}

func NewAdminHandler(importer *bulkimport.Service, admin service.AdminService) *AdminHandler {
	return &AdminHandler{importer: importer, admin: admin}
}

// BulkUpload ingests a CSV, XLSX or JSON file for one entity kind.
// The target entity comes as a "model" form field or query param
// alongside the file; "entity_type" is accepted as an alias.
func (h *AdminHandler) BulkUpload(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entity, err := bulkimport.ParseEntityType(targetEntity(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	filename, data, err := readUploadedFile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	sum, entry, err := h.importer.Run(c.Request.Context(), userID, filename, data, entity)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bulkUploadResponse(sum, entry))
}

// BulkUploadUsers ingests composite user rows: each row creates a user
// plus its nested profile, education, employment and family records.
func (h *AdminHandler) BulkUploadUsers(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	filename, data, err := readUploadedFile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	sum, entry, err := h.importer.RunCompositeUsers(c.Request.Context(), userID, filename, data)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bulkUploadResponse(sum, entry))
}

func (h *AdminHandler) BulkUploadLogs(c *gin.Context) {
	logs, err := h.importer.Logs(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, meta, err := h.admin.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": meta,
	})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	resp, err := h.admin.Analytics(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) Reindex(c *gin.Context) {
	indexed, err := h.admin.ReindexMembers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReindexResponse{
		Message: "Member index rebuilt",
		Indexed: indexed,
	})
}

func targetEntity(c *gin.Context) string {
	if v := c.PostForm("model"); v != "" {
		return v
	}
	if v := c.Query("model"); v != "" {
		return v
	}
	return c.PostForm("entity_type")
}

func readUploadedFile(c *gin.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: file is required", apperror.ErrBadRequest)
	}

	if fileHeader.Size > maxUploadSize {
		return "", nil, fmt.Errorf("%w: file exceeds 20MB limit", apperror.ErrInvalidInput)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to open uploaded file", apperror.ErrBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to read uploaded file", apperror.ErrBadRequest)
	}

	return fileHeader.Filename, data, nil
}

func bulkUploadResponse(sum *bulkimport.Summary, entry *model.BulkUploadLog) dto.BulkUploadResponse {
	errs := sum.Errors
	if errs == nil {
		errs = []bulkimport.RowError{}
	}

	return dto.BulkUploadResponse{
		Message: "Bulk upload processed",
		Log:     entry,
		Success: sum.Success,
		Failure: sum.Failure,
		Skipped: sum.Skipped,
		Errors:  errs,
	}
}

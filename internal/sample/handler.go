package sample

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kinyy999/sample-share-backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

// ObjectStorage отдает и принимает аудиофайлы сэмплов (MinIO)
type ObjectStorage interface {
	GetFile(objectName string) (io.ReadCloser, error)
	UploadFile(objectName string, reader io.Reader, size int64, contentType string) error
}

type Handler struct {
	service *Service
	storage ObjectStorage
}

func NewHandler(service *Service, storage ObjectStorage) *Handler {
	return &Handler{service: service, storage: storage}
}

func respondError(c echo.Context, err error) error {
	return c.JSON(apperr.GetStatus(err), map[string]string{"error": apperr.GetMessage(err)})
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateSampleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	ownerID, _ := c.Get("user_id").(int)

	smp, err := h.service.CreateSample(&req, ownerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, smp)
}

func (h *Handler) List(c echo.Context) error {
	var f Filter

	if v := c.QueryParam("bpm"); v != "" {
		bpm, err := strconv.Atoi(v)
		if err != nil {
			return respondError(c, apperr.ErrBadRequest)
		}
		f.BPM = &bpm
	}
	f.Genre = c.QueryParam("genre")
	f.Key = c.QueryParam("key")
	f.Artist = c.QueryParam("artist")
	if v := c.QueryParam("isPublic"); v != "" {
		isPublic, err := strconv.ParseBool(v)
		if err != nil {
			return respondError(c, apperr.ErrBadRequest)
		}
		f.IsPublic = &isPublic
	}

	f.Page = 1
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return respondError(c, apperr.ErrBadRequest)
		}
		f.Page = page
	}
	f.Limit = 20
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return respondError(c, apperr.ErrBadRequest)
		}
		f.Limit = limit
	}

	res, err := h.service.ListSamples(f)
	if err != nil {
		return respondError(c, apperr.ErrInternalServer)
	}

	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	smp, err := h.service.GetSample(sampleID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, smp)
}

func (h *Handler) Update(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	var req UpdateSampleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	requesterID, _ := c.Get("user_id").(int)
	role, _ := c.Get("role").(string)

	smp, err := h.service.UpdateSample(sampleID, requesterID, role, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, smp)
}

func (h *Handler) Delete(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	requesterID, _ := c.Get("user_id").(int)
	role, _ := c.Get("role").(string)

	if err := h.service.DeleteSample(sampleID, requesterID, role); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Sample deleted successfully"})
}

func (h *Handler) AddComment(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	userID, _ := c.Get("user_id").(int)

	smp, err := h.service.AddComment(sampleID, userID, req.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, smp)
}

func (h *Handler) UpdateComment(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("sid"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}
	commentID := c.Param("cid")

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}

	requesterID, _ := c.Get("user_id").(int)

	smp, err := h.service.UpdateComment(sampleID, commentID, requesterID, req.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, smp)
}

func (h *Handler) DeleteComment(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("sid"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}
	commentID := c.Param("cid")

	requesterID, _ := c.Get("user_id").(int)
	role, _ := c.Get("role").(string)

	if err := h.service.DeleteComment(sampleID, commentID, requesterID, role); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

// UploadAudio загружает аудиофайл сэмпла в MinIO и прописывает объект в url
func (h *Handler) UploadAudio(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	requesterID, _ := c.Get("user_id").(int)
	role, _ := c.Get("role").(string)

	if err := h.service.CheckOwnership(sampleID, requesterID, role); err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.ErrBadRequest)
	}
	src, err := file.Open()
	if err != nil {
		return respondError(c, apperr.ErrInternalServer)
	}
	defer src.Close()

	objectName := fmt.Sprintf("samples/%d/%s", sampleID, file.Filename)
	if err := h.storage.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		return respondError(c, apperr.ErrInternalServer)
	}

	if err := h.service.SetAudioURL(sampleID, objectName); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Audio uploaded", "url": objectName})
}

// StreamAudio отдает аудиофайл сэмпла из MinIO
func (h *Handler) StreamAudio(c echo.Context) error {
	sampleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.ErrInvalidID)
	}

	objectName, err := h.service.GetAudioObject(sampleID)
	if err != nil {
		return respondError(c, err)
	}

	obj, err := h.storage.GetFile(objectName)
	if err != nil {
		return respondError(c, apperr.ErrAudioNotFound)
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err = io.Copy(buf, obj); err != nil {
		return respondError(c, apperr.ErrAudioNotFound)
	}

	return c.Blob(http.StatusOK, http.DetectContentType(buf.Bytes()), buf.Bytes())
}

package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/valyala/bytebufferpool"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

const (
	uploadFormField = "file"
	// Room for multipart boundaries and part headers on top of the file limit.
	multipartOverheadBytes = 64 << 10
)

func (h *Handler) UploadFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadFixtures")
	defer span.End()

	limit := h.ingestionService.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverheadBytes)

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(ctx, w, uploadFormError(err, limit))
		return
	}
	defer file.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	// One byte past the limit is enough for the pipeline to reject the file.
	if _, err := buf.ReadFrom(io.LimitReader(file, limit+1)); err != nil {
		writeError(ctx, w, uploadFormError(err, limit))
		return
	}

	result, err := h.ingestionService.Ingest(ctx, usecase.UploadInput{
		FileName: header.Filename,
		Size:     header.Size,
		Data:     buf.B,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload fixtures failed", "file_name", header.Filename, "size", header.Size, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func uploadFormError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return usecase.NewPayloadTooLargeError(0, limit)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return usecase.NewPublicError(usecase.ErrInvalidInput, "No file uploaded")
	default:
		return fmt.Errorf("%w: read upload: %v", usecase.ErrInvalidInput, err)
	}
}

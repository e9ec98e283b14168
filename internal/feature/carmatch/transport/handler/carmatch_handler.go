// Package handler はcarmatchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"carstock_backend/internal/api"
	"carstock_backend/internal/feature/carmatch/domain"
	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
)

// multipartOverhead はファイル本体以外のmultipartヘッダー分の余裕です。
const multipartOverhead = 1 << 20

// CarMatchUsecase は画像照合のユースケースです。
type CarMatchUsecase interface {
	Match(ctx context.Context, img entity.StagedImage) (*entity.MatchResult, error)
}

// ImageStager はアップロード画像の一時保存先です。
type ImageStager interface {
	Stage(r io.Reader, originalName string) (string, error)
	Remove(path string)
}

// CarMatchHandler は画像アップロードを受け付け、分類結果または一致した在庫を返します。
type CarMatchHandler struct {
	uc       CarMatchUsecase
	stager   ImageStager
	maxBytes int64
}

// NewCarMatchHandler はCarMatchHandlerを生成します。maxBytes が0以下なら既定の上限を使います。
func NewCarMatchHandler(uc CarMatchUsecase, stager ImageStager, maxBytes int64) *CarMatchHandler {
	if maxBytes <= 0 {
		maxBytes = usecase.MaxImageSize
	}
	return &CarMatchHandler{uc: uc, stager: stager, maxBytes: maxBytes}
}

// UploadSingleImage は POST /uploadsingleimage を処理します。
// - image フィールドが無ければ400
// - 許可されていない形式は415、上限超過は413
// - 分類・在庫検索の失敗は500（本文は "Internal Server Error"）
// 保存した画像は成功・失敗にかかわらず削除します。
func (h *CarMatchHandler) UploadSingleImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("リクエストボディが上限を超過", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: domain.ErrPayloadTooLarge.Error()})
			return
		}
		slog.Warn("画像ファイルの取得に失敗", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: domain.ErrMissingImage.Error()})
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if err := usecase.ValidateUpload(fh.Filename, mimeType, fh.Size, h.maxBytes); err != nil {
		slog.Warn("アップロード画像の検証に失敗", "file", fh.Filename, "mime", mimeType, "size", fh.Size, "error", err)
		c.JSON(validationStatus(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	path, err := h.stage(fh)
	if err != nil {
		slog.Error("画像の保存に失敗", "file", fh.Filename, "error", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	defer h.stager.Remove(path)

	img := entity.StagedImage{Path: path, OriginalName: fh.Filename, MIMEType: mimeType, Size: fh.Size}
	res, err := h.uc.Match(c.Request.Context(), img)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUpstreamFailure):
			slog.Error("分類APIの呼び出しに失敗", "file", fh.Filename, "error", err)
		case errors.Is(err, domain.ErrStoreQueryFailure):
			slog.Error("在庫ストアの検索に失敗", "file", fh.Filename, "error", err)
		default:
			slog.Error("画像照合に失敗", "file", fh.Filename, "error", err)
		}
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	if res.Mode == entity.ModeRaw {
		c.Data(http.StatusOK, "application/json; charset=utf-8", res.Raw)
		return
	}
	records := res.Records
	if records == nil {
		records = []entity.InventoryRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *CarMatchHandler) stage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()
	return h.stager.Stage(src, fh.Filename)
}

// validationStatus は検証エラーをHTTPステータスに対応づけます。
func validationStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

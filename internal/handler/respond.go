package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haruka/kaori/internal/middleware"
	"github.com/haruka/kaori/internal/model"
)

// writeJSONResponse は成功レスポンスを書き込む。
// ボディには常にok:trueを含める。
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// APIError以外のエラーは詳細をログのみに記録し、一般的な500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("unexpected service error", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	middleware.WriteErrorResponse(w, statusCodeForAPIError(apiErr), apiErr)
}

// statusCodeForAPIError はエラーコードをHTTPステータスコードに対応付ける。
func statusCodeForAPIError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodePostNotFound,
		model.ErrCodeHouseNotFound,
		model.ErrCodeFragranceNotFound,
		model.ErrCodeNoteNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateSlug:
		return http.StatusConflict
	case model.ErrCodeValidationFailed,
		model.ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials,
		model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeBackendUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

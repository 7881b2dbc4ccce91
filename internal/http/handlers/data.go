package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"newsdesk/internal/domain/content"
	middlewarex "newsdesk/internal/http/middleware"
	"newsdesk/internal/services/data"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserRevoker ends every session of a user.
type UserRevoker interface {
	LogoutUser(ctx context.Context, userID int64) (int, error)
}

// ListContent handles list requests for any registered resource
func ListContent(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := content.ParseResource(chi.URLParam(r, "resource"))
		if !ok {
			writeJSON(w, http.StatusNotFound, data.ListResponse{Error: errPtr("unknown resource"), TotalPages: 1})
			return
		}

		response, err := dataService.List(r.Context(), resource, parseListRequest(r))
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, data.ErrUnknownResource):
				status = http.StatusNotFound
			case errors.Is(err, data.ErrInvalidRequest):
				status = http.StatusBadRequest
			}
			if status == http.StatusInternalServerError {
				log.Error().Err(err).Str("resource", string(resource)).Msg("list failed")
			}
			writeJSON(w, status, data.ListResponse{Error: errPtr(err.Error()), TotalPages: 1})
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// DeleteContent removes one entity; deleting your own user ends your sessions
func DeleteContent(dataService *data.Service, revoker UserRevoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := content.ParseResource(chi.URLParam(r, "resource"))
		if !ok {
			writeJSON(w, http.StatusNotFound, data.DeleteResponse{Error: errPtr("unknown resource")})
			return
		}
		id, ok := content.ParseID(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusBadRequest, data.DeleteResponse{Error: errPtr("invalid id")})
			return
		}

		if err := dataService.Delete(r.Context(), resource, id); err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				writeJSON(w, http.StatusNotFound, data.DeleteResponse{Error: errPtr("not found")})
			case errors.Is(err, data.ErrUnknownResource):
				writeJSON(w, http.StatusNotFound, data.DeleteResponse{Error: errPtr("unknown resource")})
			default:
				log.Error().Err(err).Str("resource", string(resource)).Int64("id", id).Msg("delete failed")
				writeJSON(w, http.StatusInternalServerError, data.DeleteResponse{Error: errPtr(err.Error())})
			}
			return
		}

		if sess, ok := middlewarex.SessionFrom(r.Context()); ok && resource == content.ResourceUsers && id == sess.UserID {
			if _, err := revoker.LogoutUser(r.Context(), sess.UserID); err != nil {
				log.Warn().Err(err).Int64("user_id", sess.UserID).Msg("revoke after self delete")
			}
		}

		writeJSON(w, http.StatusOK, data.DeleteResponse{Success: true})
	}
}

// parseListRequest parses HTTP query parameters into ListRequest
func parseListRequest(r *http.Request) data.ListRequest {
	q := r.URL.Query()
	req := data.ListRequest{
		Search:        q.Get("query"),
		SortField:     q.Get("sortField"),
		SortDirection: q.Get("sortDirection"),
	}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}

	return req
}

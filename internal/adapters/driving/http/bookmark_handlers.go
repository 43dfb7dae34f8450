package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// handleListBookmarks godoc
// @Summary      List bookmarks
// @Description  The caller's bookmarks, newest first
// @Tags         Bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Bookmark
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/bookmarks/ [get]
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())

	bookmarks, err := s.bookmarkService.List(r.Context(), authCtx.UserID)
	if err != nil {
		s.logger.Error("list bookmarks failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}
	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}

	writeJSON(w, http.StatusOK, bookmarks)
}

// handleCreateBookmark godoc
// @Summary      Bookmark a verse
// @Description  Returns the existing bookmark when the verse is already bookmarked
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.CreateBookmarkRequest  true  "Verse"
// @Success      201      {object}  domain.Bookmark  "Created"
// @Success      200      {object}  domain.Bookmark  "Already bookmarked"
// @Failure      400      {object}  ErrorResponse
// @Router       /auth/bookmarks/create/ [post]
func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())

	var req domain.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bookmark, created, err := s.bookmarkService.Create(r.Context(), authCtx.UserID, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "verse_key, chapter_id and verse_number required")
			return
		}
		s.logger.Error("create bookmark failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to create bookmark")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, bookmark)
}

// handleDeleteBookmark godoc
// @Summary      Remove a bookmark
// @Tags         Bookmarks
// @Security     BearerAuth
// @Param        verse_key  path  string  true  "Verse key, e.g. 2:255"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/bookmarks/{verse_key}/ [delete]
func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())

	err := s.bookmarkService.Delete(r.Context(), authCtx.UserID, r.PathValue("verse_key"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		s.logger.Error("delete bookmark failed", "error", err, "request_id", GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to delete bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

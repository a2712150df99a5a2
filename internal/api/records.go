package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clipkeep/internal/clip"
)

type addRecordRequest struct {
	Text       string `json:"text"`
	FolderID   string `json:"folderId"`
	IsFavorite bool   `json:"isFavorite"`
}

// patchRecordRequest edits text and/or moves the record. A folderId of ""
// makes the record uncategorized; an absent one leaves it where it is.
type patchRecordRequest struct {
	Text     *string `json:"text"`
	FolderID *string `json:"folderId"`
}

// parseListQuery reads the filter, sort and limit parameters of GET /records.
func parseListQuery(q url.Values) (clip.Filter, clip.SortBy, int, error) {
	var f clip.Filter
	if t := q.Get("type"); t != "" {
		typ, ok := clip.ParseRecordType(t)
		if !ok {
			return f, "", 0, fmt.Errorf("unknown type %q: %w", t, clip.ErrInvalid)
		}
		f.Type = typ
	}
	if fav := q.Get("favorite"); fav != "" {
		b, err := strconv.ParseBool(fav)
		if err != nil {
			return f, "", 0, fmt.Errorf("favorite: %v: %w", err, clip.ErrInvalid)
		}
		f.Favorite = &b
	}
	if q.Has("folder") {
		id := q.Get("folder")
		f.FolderID = &id
	}
	for name, dst := range map[string]*time.Time{"from": &f.From, "to": &f.To} {
		if v := q.Get(name); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return f, "", 0, fmt.Errorf("%s: %v: %w", name, err, clip.ErrInvalid)
			}
			*dst = ts
		}
	}

	sortBy := clip.SortByDate
	if s := q.Get("sort"); s != "" {
		by, ok := clip.ParseSortBy(s)
		if !ok {
			return f, "", 0, fmt.Errorf("unknown sort %q: %w", s, clip.ErrInvalid)
		}
		sortBy = by
	}

	limit := 0
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return f, "", 0, fmt.Errorf("limit must be a non-negative integer: %w", clip.ErrInvalid)
		}
		limit = n
	}
	return f, sortBy, limit, nil
}

// listRecords serves GET /records. With q set the records come from a
// search (fuzzy=true ranks them) and keep their match order unless sort is given.
func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, sortBy, limit, err := parseListQuery(q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var records []clip.Record
	switch query := q.Get("q"); {
	case query == "":
		records = clip.Sort(h.svc.Records(), sortBy)
	case q.Get("fuzzy") == "true":
		records = h.svc.FuzzySearch(query)
	default:
		records = h.svc.Search(query)
	}
	if q.Get("q") != "" && q.Has("sort") {
		records = clip.Sort(records, sortBy)
	}

	records = filter.Apply(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []clip.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) addRecord(w http.ResponseWriter, r *http.Request) {
	var req addRecordRequest
	if err := decodeBody(w, r, maxRequestBodySize, &req); err != nil {
		h.writeError(w, err)
		return
	}
	rec, err := h.svc.AddManual(req.Text, req.FolderID, req.IsFavorite)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) patchRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req patchRecordRequest
	if err := decodeBody(w, r, maxRequestBodySize, &req); err != nil {
		h.writeError(w, err)
		return
	}

	rec, err := h.svc.Record(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// Resolve the target folder before any write so a bad folder leaves the record untouched.
	if req.FolderID != nil && *req.FolderID != "" {
		if _, err := h.svc.Store().Folder(*req.FolderID); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Text != nil {
		if rec, err = h.svc.EditText(id, *req.Text); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.FolderID != nil {
		if rec, err = h.svc.MoveToFolder(id, *req.FolderID); err != nil {
			h.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) recordStats(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clip.Stats(rec.Text))
}

func (h *handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.ToggleFavorite(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) copyRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.CopyOut(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) poll(w http.ResponseWriter, r *http.Request) {
	captured := h.svc.Monitor().Poll()
	resp := map[string]any{"captured": captured}
	if captured {
		if records := h.svc.Store().ListRecords(); len(records) > 0 {
			resp["record"] = records[0]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

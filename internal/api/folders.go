package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clipkeep/internal/clip"
)

type folderRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (h *handler) listFolders(w http.ResponseWriter, r *http.Request) {
	folders := h.svc.Folders()
	if folders == nil {
		folders = []clip.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeBody(w, r, maxRequestBodySize, &req); err != nil {
		h.writeError(w, err)
		return
	}
	f, err := h.svc.CreateFolder(req.Name, req.Icon, req.Color)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *handler) renameFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeBody(w, r, maxRequestBodySize, &req); err != nil {
		h.writeError(w, err)
		return
	}
	f, err := h.svc.RenameFolder(chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handler) deleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFolder(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) recountFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.RecountFolders()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if folders == nil {
		folders = []clip.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

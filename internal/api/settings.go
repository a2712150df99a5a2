package api

import (
	"io"
	"net/http"
)

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// putSettings decodes the body over the current settings, so fields left
// out of the body keep their stored value.
func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.svc.Settings()
	if err := decodeBody(w, r, maxRequestBodySize, &settings); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.SaveSettings(settings); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="clipkeep-export.json"`)
	w.Write(data)
}

func (h *handler) importDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodySize)
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusBadRequest, "reading body: %v", err)
		return
	}
	summary, err := h.svc.Import(data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

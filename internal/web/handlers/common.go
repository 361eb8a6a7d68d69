package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"ragadmin/internal/backend"
	"ragadmin/internal/web/flash"
	"ragadmin/internal/web/webcontext"
)

// Uploads larger than this are rejected at parse time.
const maxUploadBytes = 32 << 20

// param extracts a route parameter injected by the router.
func param(r *http.Request, name string) string {
	if ps, ok := r.Context().Value(webcontext.Params).(httprouter.Params); ok {
		return ps.ByName(name)
	}
	return ""
}

// fail turns an error into operator feedback. A 401 sends the operator to
// the login page (the client already cleared the session); every other
// error becomes a flash carrying the backend's message when it supplied
// one.
func fail(w http.ResponseWriter, r *http.Request, err error, fallback, backTo string) {
	if backend.IsUnauthorized(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	flash.Set(w, flash.Error(backend.ErrorMessage(err, fallback)))
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

// formFiles opens every file submitted under the given multipart field.
// Browsers submit one empty part when the picker is left untouched, so
// nameless and zero-byte parts are skipped. The returned cleanup closes
// whatever was opened and is safe to defer immediately.
func formFiles(r *http.Request, field string) ([]backend.File, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, noop, err
	}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	var files []backend.File
	for _, header := range r.MultipartForm.File[field] {
		if header.Filename == "" || header.Size == 0 {
			continue
		}
		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		opened = append(opened, f)
		files = append(files, backend.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      f,
		})
	}
	return files, cleanup, nil
}

package respond

import (
	"bufio"
	"io"
	"net/http"
	"strings"

	"vetcare-api/internal/platform/apperr"
)

// Upload es un archivo recibido por multipart.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FormFile lee el campo field de un multipart. El caller debe llamar a closeFn.
// Si el cliente no manda Content-Type del part, se detecta por contenido.
func FormFile(r *http.Request, field string, maxBytes int64) (Upload, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return Upload{}, noop, apperr.Validation("invalid multipart form")
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return Upload{}, noop, apperr.Validation("file field %q is required", field)
	}
	if hdr.Size > maxBytes {
		_ = f.Close()
		return Upload{}, noop, apperr.Validation("file too large")
	}

	br := bufio.NewReader(f)
	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		head, _ := br.Peek(512)
		ct = http.DetectContentType(head)
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	return Upload{
		Filename:    hdr.Filename,
		ContentType: ct,
		Size:        hdr.Size,
		Body:        br,
	}, func() { _ = f.Close() }, nil
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"tea-registry/internal/domain"
	"tea-registry/internal/storage"

	"go.uber.org/zap"
)

// DocumentHandler serves private objects behind signed URLs. The signature is
// the whole access control here: the gate does not protect /storage, an
// unexpired valid signature does.
type DocumentHandler struct {
	objects storage.ObjectStore
	signer  *storage.URLSigner
	logger  *zap.Logger
}

func NewDocumentHandler(objects storage.ObjectStore, signer *storage.URLSigner, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{objects: objects, signer: signer, logger: logger}
}

// Fetch serves GET /storage/{bucket}/{path}?expires=&sig=.
func (h *DocumentHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/storage/")
	bucketName, path, ok := strings.Cut(rest, "/")
	if !ok || path == "" || !storage.ValidBucket(bucketName) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	bucket := domain.DocumentKind(bucketName)

	q := r.URL.Query()
	if err := h.signer.Verify(bucket, path, q.Get("expires"), q.Get("sig")); err != nil {
		// Expired and forged URLs fail alike; callers treat the document as
		// absent.
		w.WriteHeader(http.StatusForbidden)
		return
	}

	obj, err := h.objects.Open(bucket, path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("failed to open object",
			zap.String("bucket", bucketName), zap.String("path", path), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, obj)
}

package storage

import (
	"errors"

	"tea-registry/internal/domain"
)

var (
	// ErrUnknownBucket means the bucket name is not one of the four document
	// slots.
	ErrUnknownBucket = errors.New("unknown bucket")
	// ErrInvalidMIME means the uploaded content type is not allowed in the
	// bucket.
	ErrInvalidMIME = errors.New("file type not allowed for bucket")
	// ErrObjectNotFound means the stored path resolves to nothing.
	ErrObjectNotFound = errors.New("object not found")
)

// bucketMIMEs mirrors the upload allow-lists: photos are images only, the
// three document buckets also accept PDF.
var bucketMIMEs = map[domain.DocumentKind][]string{
	domain.DocPhoto:          {"image/jpeg", "image/png"},
	domain.DocPersonal:       {"application/pdf", "image/jpeg", "image/png"},
	domain.DocGuardian:       {"application/pdf", "image/jpeg", "image/png"},
	domain.DocClinicalReport: {"application/pdf", "image/jpeg", "image/png"},
}

// ValidBucket reports whether name is one of the four bucket names.
func ValidBucket(name string) bool {
	_, ok := bucketMIMEs[domain.DocumentKind(name)]
	return ok
}

// AllowedMIME reports whether contentType may be stored in the bucket.
func AllowedMIME(bucket domain.DocumentKind, contentType string) bool {
	for _, m := range bucketMIMEs[bucket] {
		if m == contentType {
			return true
		}
	}
	return false
}

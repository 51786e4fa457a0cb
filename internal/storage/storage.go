package storage

import (
	"io"
	"mime/multipart"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage persists uploaded photo files under collision-resistant keys.
// SaveFile returns the generated key; OpenFile and DeleteFile take that key.
type Storage interface {
	SaveFile(file multipart.File, info FileInfo) (string, error)
	OpenFile(key string) (io.ReadSeekCloser, error)
	DeleteFile(key string) error
}

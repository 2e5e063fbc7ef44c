package interfaces

import "context"

// Uploader stores a document (resume, marksheet, proof, logo) and returns
// its public link. The pipeline only ever consumes link presence.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}

package images

import "io"

const MaxUploadSize = 10 << 20 // 10 MiB

// CreateInput is an upload as received from the multipart form.
type CreateInput struct {
	Description string
	Tags        []string
	File        io.ReadSeeker
	Filename    string
	Size        int64
}

type UpdateRequest struct {
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

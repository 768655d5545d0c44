package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/librisys/library-client/internal/core/ports"
)

// adminForm encodes the add-admin payload as multipart/form-data, matching
// the backend's upload middleware: text fields name, email, password, and
// an optional "avatar" file part.
func adminForm(in ports.AdminInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if in.Avatar != nil {
		name := in.AvatarName
		if name == "" {
			name = "avatar"
		}
		part, err := w.CreateFormFile("avatar", name)
		if err != nil {
			return nil, "", fmt.Errorf("create avatar part: %w", err)
		}
		if _, err := io.Copy(part, in.Avatar); err != nil {
			return nil, "", fmt.Errorf("copy avatar: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

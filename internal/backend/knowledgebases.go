package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// File is one upload candidate as it arrived from the operator's form.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

func (c *Client) ListKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	var kbs []KnowledgeBase
	if err := c.doJSON(ctx, http.MethodGet, "/knowledge-bases", nil, &kbs); err != nil {
		return nil, err
	}
	return kbs, nil
}

func (c *Client) CreateKnowledgeBase(ctx context.Context, req CreateKnowledgeBaseRequest) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := c.doJSON(ctx, http.MethodPost, "/knowledge-bases", req, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

func (c *Client) UpdateKnowledgeBase(ctx context.Context, id string, req UpdateKnowledgeBaseRequest) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := c.doJSON(ctx, http.MethodPatch, "/knowledge-bases/"+id, req, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

func (c *Client) DeleteKnowledgeBase(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/knowledge-bases/"+id, nil, nil)
}

func (c *Client) AttachKnowledgeBase(ctx context.Context, req AttachKnowledgeBaseRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/knowledge-bases/attach", req, nil)
}

// UploadFiles sends every file in one multipart request under the shared
// "files" field. The multipart writer supplies its own content type so the
// boundary is preserved; do must not force application/json here.
func (c *Client) UploadFiles(ctx context.Context, kbID string, files []File) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("create form file %q: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("read file %q: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	path := "/knowledge-bases/" + kbID + "/upload"
	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), nil)
}

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mmcdole/clipshare/internal/domain"
)

// sniffLen is how much of the payload is read to detect its type
const sniffLen = 3072

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// videoExtensions covers containers the system mime table may not know
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// UploadVideo validates the request, then streams it as multipart form data
func (c *Client) UploadVideo(ctx context.Context, req domain.UploadRequest, onProgress domain.ProgressFunc) (*domain.Video, error) {
	const op = "upload video"

	media, contentType, err := ValidateUpload(req)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)

	filename := filepath.Base(req.Media.Filename)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		filename = "video" + extensionFor(contentType)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(c.writeUploadForm(form, req, filename, contentType, media, onProgress))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/videos/upload", pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, &domain.Error{Op: op, Kind: domain.KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Info("uploading video", "title", req.Title, "filename", filename, "contentType", contentType, "size", req.Media.Size)

	body, err := c.send(op, c.uploadClient, httpReq)
	// Unblock the writer goroutine if the request ended early
	pr.CloseWithError(errors.New("upload finished"))
	if err != nil {
		return nil, err
	}

	var resp uploadResponse
	if err := c.decode(op, body, &resp); err != nil {
		return nil, err
	}
	if resp.VideoID == "" {
		return nil, &domain.Error{Op: op, Kind: domain.KindServer, Message: "response has no video id"}
	}

	c.logger.Info("uploaded video", "videoID", resp.VideoID, "status", resp.Status)
	return mapUpload(resp, req, c.userID, c.now()), nil
}

// writeUploadForm writes the form in the field order the web client used
func (c *Client) writeUploadForm(
	form *multipart.Writer,
	req domain.UploadRequest,
	filename, contentType string,
	media io.Reader,
	onProgress domain.ProgressFunc,
) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}

	src := media
	if onProgress != nil {
		src = &progressReader{r: media, total: req.Media.Size, onProgress: onProgress}
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}

	fields := [][2]string{
		{"title", req.Title},
		{"description", req.Description},
		{"userId", c.userID},
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	return form.Close()
}

// ValidateUpload checks the upload preconditions without touching the
// network. It returns a reader positioned at the start of the media and the
// detected content type.
func ValidateUpload(req domain.UploadRequest) (io.Reader, string, error) {
	const op = "upload video"

	if strings.TrimSpace(req.Title) == "" {
		return nil, "", domain.NewValidationError(op, "title is required")
	}
	if req.Media == nil || req.Media.Reader == nil {
		return nil, "", domain.NewValidationError(op, "video file is required")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.Media.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", &domain.Error{Op: op, Kind: domain.KindValidation, Message: "cannot read video file", Err: err}
	}
	head = head[:n]
	if n == 0 {
		return nil, "", domain.NewValidationError(op, "video file is empty")
	}

	contentType := detectVideoType(head, req.Media.Filename)
	if contentType == "" {
		return nil, "", domain.NewValidationError(op, "file is not a video")
	}

	return io.MultiReader(bytes.NewReader(head), req.Media.Reader), contentType, nil
}

// detectVideoType sniffs the payload, falling back to the file extension.
// Returns "" when neither says video.
func detectVideoType(head []byte, filename string) string {
	if mt := mimetype.Detect(head); strings.HasPrefix(mt.String(), "video/") {
		return stripParams(mt.String())
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if byExt, ok := videoExtensions[ext]; ok {
		return byExt
	}
	if byExt := mime.TypeByExtension(ext); strings.HasPrefix(byExt, "video/") {
		return stripParams(byExt)
	}
	return ""
}

func stripParams(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		return strings.TrimSpace(contentType[:i])
	}
	return contentType
}

func extensionFor(contentType string) string {
	if mt := mimetype.Lookup(contentType); mt != nil {
		return mt.Extension()
	}
	return ".mp4"
}

// progressReader reports bytes read to onProgress
type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress domain.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.onProgress(p.sent, p.total)
	}
	return n, err
}

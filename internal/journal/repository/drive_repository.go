package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"trading-journal/internal/journal/config"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"
)

// VaultFileInfo is the metadata of the remote vault blob.
type VaultFileInfo struct {
	FileID       string
	Version      int64
	ModifiedTime time.Time
}

// DriveRepository stores the vault snapshot as a single file in an
// app-private cloud drive folder.
type DriveRepository interface {
	// Stat returns the remote vault metadata, or nil when no snapshot exists.
	Stat(ctx context.Context) (*VaultFileInfo, error)
	// Upload creates or overwrites the vault file with the given content.
	Upload(ctx context.Context, content []byte, version int64) error
	// Download fetches the vault file content and its metadata.
	Download(ctx context.Context) ([]byte, *VaultFileInfo, error)
}

// NewDriveRepository creates a drive repository backed by the Drive REST API.
func NewDriveRepository(cfg *config.Config, log *logger.Logger) DriveRepository {
	return &driveRepository{
		client: &http.Client{Timeout: 60 * time.Second},
		cfg:    cfg,
		logger: log,
	}
}

type driveRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

type driveFile struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ModifiedTime  time.Time         `json:"modifiedTime"`
	AppProperties map[string]string `json:"appProperties"`
}

type driveFileList struct {
	Files []driveFile `json:"files"`
}

// Stat looks the vault file up by name inside the app folder.
func (r *driveRepository) Stat(ctx context.Context) (*VaultFileInfo, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("name = '%s' and trashed = false", common.VaultFileName))
	q.Set("spaces", "appDataFolder")
	q.Set("fields", "files(id,name,modifiedTime,appProperties)")

	endpoint := fmt.Sprintf("%s/files?%s", r.cfg.Drive.BaseURL, q.Encode())
	body, err := r.doRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}

	var list driveFileList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode drive file list: %w", err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return fileInfo(&list.Files[0]), nil
}

// Upload creates the vault file on first push, then overwrites it in place.
// The snapshot version travels in appProperties so Stat can compare versions
// without downloading the blob.
func (r *driveRepository) Upload(ctx context.Context, content []byte, version int64) error {
	existing, err := r.Stat(ctx)
	if err != nil {
		return err
	}

	metadata := map[string]interface{}{
		"name":          common.VaultFileName,
		"appProperties": map[string]string{"vaultVersion": strconv.FormatInt(version, 10)},
	}
	var method, endpoint string
	if existing == nil {
		metadata["parents"] = []string{"appDataFolder"}
		method = http.MethodPost
		endpoint = fmt.Sprintf("%s/files?uploadType=multipart", r.cfg.Drive.UploadURL)
	} else {
		method = http.MethodPatch
		endpoint = fmt.Sprintf("%s/files/%s?uploadType=multipart", r.cfg.Drive.UploadURL, existing.FileID)
	}

	body, contentType, err := buildMultipartBody(metadata, content)
	if err != nil {
		return err
	}

	if _, err := r.doRequest(ctx, method, endpoint, body, contentType); err != nil {
		return err
	}

	r.logger.Info("Vault snapshot uploaded",
		logger.Field("version", version),
		logger.IntField("bytes", len(content)))
	return nil
}

// Download fetches the vault content, resolving the file id via Stat first.
func (r *driveRepository) Download(ctx context.Context) ([]byte, *VaultFileInfo, error) {
	info, err := r.Stat(ctx)
	if err != nil {
		return nil, nil, err
	}
	if info == nil {
		return nil, nil, fmt.Errorf("no vault snapshot found in cloud drive")
	}

	endpoint := fmt.Sprintf("%s/files/%s?alt=media", r.cfg.Drive.BaseURL, info.FileID)
	body, err := r.doRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, nil, err
	}
	return body, info, nil
}

func (r *driveRepository) doRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Drive.AccessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Error("Received non-OK response from drive API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("received non-OK response from drive API: %d - %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// buildMultipartBody assembles the multipart/related request the drive upload
// endpoint expects: a JSON metadata part followed by the file content part.
func buildMultipartBody(metadata map[string]interface{}, content []byte) (io.Reader, string, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal drive metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := metaPart.Write(metadataJSON); err != nil {
		return nil, "", err
	}

	contentHeader := textproto.MIMEHeader{}
	contentHeader.Set("Content-Type", "application/json")
	contentPart, err := w.CreatePart(contentHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := contentPart.Write(content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	contentType := fmt.Sprintf("multipart/related; boundary=%s", w.Boundary())
	return &buf, contentType, nil
}

func fileInfo(f *driveFile) *VaultFileInfo {
	info := &VaultFileInfo{
		FileID:       f.ID,
		ModifiedTime: f.ModifiedTime,
	}
	if v, ok := f.AppProperties["vaultVersion"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			info.Version = parsed
		}
	}
	return info
}

package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const uploadTimeout = 30 * time.Second

// Cloudinary stores instructor uploads under a single root folder.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	now    func() time.Time
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

func NewCloudinary(rawURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: strings.Trim(folder, "/"), now: time.Now}, nil
}

// Upload stores r under key and returns its public https URL.
func (c *Cloudinary) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     c.PublicID(key),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: c.PublicID(key)})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}

// SignUpload lets a browser upload directly into sub, a folder below the root.
func (c *Cloudinary) SignUpload(sub string) (*UploadSignature, error) {
	folder := path.Join(c.folder, sub)
	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("prepare signature params: %w", err)
	}
	ts := c.now().Unix()
	params.Set("timestamp", strconv.FormatInt(ts, 10))

	signature, err := api.SignParameters(params, c.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}
	return &UploadSignature{
		Signature: signature,
		Timestamp: ts,
		APIKey:    c.cld.Config.Cloud.APIKey,
		CloudName: c.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}

// PublicID maps an object key to its Cloudinary public id. Cloudinary keeps
// the format apart, so the extension is dropped.
func (c *Cloudinary) PublicID(key string) string {
	id := strings.TrimSuffix(key, path.Ext(key))
	if c.folder == "" {
		return id
	}
	return c.folder + "/" + id
}

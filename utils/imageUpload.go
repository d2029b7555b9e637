package utils

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// UploadImage pushes an uploaded picture to the configured S3-compatible
// object store and returns its public URL. The caller persists the URL on
// the profile or course record.
func UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	if config.AppConfig.StorageEndpoint == "" {
		return "", fmt.Errorf("object storage is not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	objectKey := fmt.Sprintf("%s/%s%04d%s",
		folder,
		time.Now().Format("20060102150405"),
		rand.Intn(10000),
		ext,
	)
	uploadURL := fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(config.AppConfig.StorageEndpoint, "/"),
		config.AppConfig.StorageBucket,
		objectKey,
	)

	client := resty.New().SetTimeout(15 * time.Second)
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.StorageAPIKey).
		SetHeader("Content-Type", contentTypeForExt(ext)).
		SetBody(data).
		Put(uploadURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("image upload failed with status %d", resp.StatusCode())
	}

	return uploadURL, nil
}

func contentTypeForExt(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

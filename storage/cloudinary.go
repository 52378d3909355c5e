package storage

import (
	"context"
	"log"
	"mime/multipart"
	"strings"

	config "github.com/akinyi-dev/chat_backend/configs"
	"github.com/akinyi-dev/chat_backend/utils"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// BlobStore accepts an uploaded attachment and returns an opaque reference
// string the message row stores verbatim.
type BlobStore interface {
	Upload(file multipart.File, header *multipart.FileHeader) (string, error)
}

const (
	folderPicture = "chat/picture"
	folderVideo   = "chat/video"
	folderOther   = "chat/other"
)

// bucketFor routes an attachment to a logical folder by its MIME type.
func bucketFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return folderPicture
	case strings.HasPrefix(mimeType, "video/"):
		return folderVideo
	default:
		return folderOther
	}
}

type CloudinaryStore struct{}

func NewCloudinaryStore() *CloudinaryStore {
	return &CloudinaryStore{}
}

func (s *CloudinaryStore) Upload(file multipart.File, header *multipart.FileHeader) (string, error) {
	// Reset file pointer before upload
	file.Seek(0, 0)

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		log.Println("Cloudinary init error:", err)
		return "", err
	}

	publicID, err := utils.RandomToken(12)
	if err != nil {
		return "", err
	}

	result, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		Folder:       bucketFor(header.Header.Get("Content-Type")),
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		log.Println("Cloudinary upload error:", err)
		return "", err
	}

	return result.SecureURL, nil
}

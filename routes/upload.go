package routes

import (
	"new-rent-server/storage"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data     string `json:"data"`      // base64 data URL or raw base64
	PublicID string `json:"public_id"` // optional
	Mime     string `json:"mime"`
}

// UploadImage handles base64 image upload to Cloudinary
func UploadImage(ctx iris.Context) {
	handleUpload(ctx, storage.ResourceImage)
}

// UploadVideo handles base64 video upload to Cloudinary
func UploadVideo(ctx iris.Context) {
	handleUpload(ctx, storage.ResourceVideo)
}

// UploadDocument handles base64 raw-document upload (pdf, scans) to Cloudinary
func UploadDocument(ctx iris.Context) {
	handleUpload(ctx, storage.ResourceRaw)
}

func handleUpload(ctx iris.Context, resourceType string) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	url, err := storage.UploadBase64(resourceType, in.Data, in.PublicID, in.Mime)
	if err != nil {
		ctx.StopWithJSON(iris.StatusBadGateway, iris.Map{"error": err.Error()})
		return
	}
	ctx.JSON(iris.Map{"url": url})
}

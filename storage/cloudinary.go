package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional).

// Resource kinds accepted by the Cloudinary upload API.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw" // documents (pdf, scans)
)

func InitializeCloudinary() {
	if os.Getenv("CLOUDINARY_CLOUD_NAME") == "" {
		fmt.Println("Warning: CLOUDINARY_CLOUD_NAME not set, uploads will fail")
	}
}

// UploadBase64 sends a signed upload request for the given resource kind and
// returns the durable secure URL. data may be a data URL or raw base64.
func UploadBase64(resourceType, data, publicID, mime string) (string, error) {
	if data == "" {
		return "", errors.New("empty upload payload")
	}

	payload := data
	if i := strings.Index(data, ","); i != -1 {
		payload = data[i+1:]
	}
	if mime == "" {
		switch resourceType {
		case ResourceVideo:
			mime = "video/mp4"
		case ResourceRaw:
			mime = "application/pdf"
		default:
			mime = "image/jpeg"
		}
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", errors.New("missing Cloudinary credentials")
	}

	finalPublicID := publicID
	if folder != "" && finalPublicID != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:"+mime+";base64,"+payload)
	form.Add("api_key", apiKey)
	if finalPublicID != "" {
		form.Add("public_id", finalPublicID)
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	form.Add("signature", signUpload(finalPublicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resourceType + "/upload"
	body, err := postForm(endpoint, form)
	if err != nil {
		return "", err
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", err
	}
	if cloudRes.Error.Message != "" {
		return "", errors.New("cloudinary: " + cloudRes.Error.Message)
	}

	out := cloudRes.SecureURL
	if out == "" {
		out = cloudRes.URL
	}
	if out == "" {
		return "", errors.New("cloudinary returned no URL")
	}
	return out, nil
}

// DeleteAsset removes a previously uploaded asset by its Cloudinary URL.
func DeleteAsset(assetURL, resourceType string) error {
	if !strings.Contains(assetURL, "res.cloudinary.com") {
		return errors.New("not a Cloudinary URL")
	}

	parts := strings.Split(assetURL, "/")
	last := parts[len(parts)-1]
	publicID := strings.Split(last, ".")[0]

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return errors.New("missing Cloudinary credentials")
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form := url.Values{}
	form.Add("public_id", finalPublicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signUpload(finalPublicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resourceType + "/destroy"
	body, err := postForm(endpoint, form)
	if err != nil {
		return err
	}

	var deleteRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &deleteRes); err != nil {
		return err
	}
	if deleteRes.Error.Message != "" {
		return errors.New("cloudinary: " + deleteRes.Error.Message)
	}
	if deleteRes.Result != "ok" {
		return errors.New("cloudinary deletion result: " + deleteRes.Result)
	}
	return nil
}

// signUpload builds the SHA1 request signature Cloudinary expects for signed
// uploads and deletions.
func signUpload(publicID, timestamp, apiSecret string) string {
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
}

func postForm(endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("cloudinary request failed with status %d: %s", res.StatusCode, string(body))
	}
	return body, nil
}

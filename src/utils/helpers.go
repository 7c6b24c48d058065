package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"

	"pickup/src/models"

	"github.com/yeqown/go-qrcode"
)

// RenderQRCard writes a scannable pickup QR image for the given code
// into the temp dir and returns the file path. Production credentials
// come from the backend; this exists for local testing of the scan
// path.
func RenderQRCard(code string) (string, error) {
	cred, err := models.NewCredential(code)
	if err != nil {
		return "", err
	}
	rawData := map[string]any{
		"type":             models.QR_PAYLOAD_TYPE,
		"confirmationCode": cred.Code,
	}
	rawBytes, _ := json.Marshal(rawData)

	qrc, err := qrcode.New(string(rawBytes))
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	if tempdir == "" {
		tempdir = os.TempDir()
	}
	filepath := path.Join(tempdir, fmt.Sprintf("pickupqr_%s.jpeg", cred.Code))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}

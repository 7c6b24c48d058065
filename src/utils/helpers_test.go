package utils

import (
	"os"
	"testing"

	"pickup/src/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderQRCard(t *testing.T) {
	t.Setenv("TEMP_DIR", t.TempDir())

	filepath, err := RenderQRCard("qq7x2m")
	assert.Nil(t, err)
	assert.Contains(t, filepath, "pickupqr_QQ7X2M")

	_, err = os.Stat(filepath)
	assert.Nil(t, err)
}

func TestRenderQRCardRejectsBadCodes(t *testing.T) {
	_, err := RenderQRCard("nope")
	assert.ErrorIs(t, err, models.ErrInvalidCode)
}

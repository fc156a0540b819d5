package exifmeta

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonImage(t *testing.T) {
	_, err := Extract(bytes.NewReader([]byte("plain text, no exif block")))
	assert.Error(t, err)
}

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile("/does/not/exist.jpg")
	assert.Error(t, err)
}

func TestRatToFloat(t *testing.T) {
	assert.Equal(t, 2.8, ratToFloat(28, 10, nil))
	assert.Equal(t, 0.0, ratToFloat(1, 0, nil), "zero denominator yields zero")
	assert.Equal(t, 0.0, ratToFloat(1, 2, errors.New("boom")))
}

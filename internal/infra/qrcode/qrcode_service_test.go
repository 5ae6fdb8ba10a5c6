package qrcode

import (
	"testing"

	"acharwala/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(size int, level string) *qrcodeService {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: size, ErrorCorrectionLevel: level}}

	return NewQRCodeService(cfg).(*qrcodeService)
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestNewQRCodeService_NilSection(t *testing.T) {
	service := NewQRCodeService(&config.Config{}).(*qrcodeService)
	assert.Equal(t, defaultSize, service.size)
}

func TestQRCodeService_GeneratePNG(t *testing.T) {
	service := newTestService(256, "M")

	qrBytes, err := service.GeneratePNG("https://example.com/api/v1/recipes/share/RECIPE_1700000000000_42")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GeneratePNG_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(tt.size, "M")

			qrBytes, err := service.GeneratePNG("product:achar-mustard-classic")
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_GeneratePNG_EmptyContent(t *testing.T) {
	service := newTestService(256, "M")

	_, err := service.GeneratePNG("")
	assert.Error(t, err)
}

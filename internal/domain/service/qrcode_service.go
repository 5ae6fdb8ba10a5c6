package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GeneratePNG encodes the given content into a QR code PNG image.
	GeneratePNG(content string) ([]byte, error)
}

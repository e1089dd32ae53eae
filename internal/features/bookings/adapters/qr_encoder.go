package adapters

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QREncoder implements ports.QREncoder with go-qrcode.
type QREncoder struct{}

// Encode renders content as a PNG of size by size pixels.
func (QREncoder) Encode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

package imageopt

import (
	"encoding/binary"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	markerSOI   = 0xD8
	markerSOS   = 0xDA
	markerCOM   = 0xFE
	markerAPP0  = 0xE0
	markerAPP2  = 0xE2
	markerAPP14 = 0xEE
	markerAPP15 = 0xEF
)

// stripJPEG drops comment and metadata segments (EXIF, XMP, IPTC) that sit
// before the scan data. The entropy coded image is copied untouched. JFIF,
// ICC profile and Adobe segments are kept since they change how colors decode.
func stripJPEG(data []byte) ([]byte, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, malformed()
	}

	out := make([]byte, 0, len(data))
	out = append(out, data[:2]...)

	pos := 2
	for pos < len(data) {
		if data[pos] != 0xFF {
			return nil, malformed()
		}
		// Fill bytes may precede a marker.
		start := pos
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			return nil, malformed()
		}
		marker := data[pos]
		pos++

		if marker == markerSOS {
			return append(out, data[start:]...), nil
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			out = append(out, data[start:pos]...)
			continue
		}

		if pos+2 > len(data) {
			return nil, malformed()
		}
		end := pos + int(binary.BigEndian.Uint16(data[pos:]))
		if end > len(data) || end < pos+2 {
			return nil, malformed()
		}
		if !droppable(marker) {
			out = append(out, data[start:end]...)
		}
		pos = end
	}
	return nil, malformed()
}

func droppable(marker byte) bool {
	if marker == markerCOM {
		return true
	}
	if marker < markerAPP0 || marker > markerAPP15 {
		return false
	}
	return marker != markerAPP0 && marker != markerAPP2 && marker != markerAPP14
}

func malformed() error {
	return zerr.Wrap(domain.ErrImageOptimizeFailed, "malformed jpeg segments")
}

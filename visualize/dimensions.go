package visualize

import (
	"encoding/json"
	"os"

	"github.com/ddvk/rmraster/encoding/rm"
	"github.com/ddvk/rmraster/log"
)

// Dimensions is the nominal canvas size of a page in pixels
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DeviceDimensions is the display resolution of the device
var DeviceDimensions = Dimensions{Width: rm.DeviceWidth, Height: rm.DeviceHeight}

// sidecar holds the fields of a notebook .content document used for sizing
type sidecar struct {
	CustomZoomPageWidth  *float64 `json:"customZoomPageWidth"`
	CustomZoomPageHeight *float64 `json:"customZoomPageHeight"`
}

// PageDimensions reads the custom page size from a .content sidecar.
// It never fails: a missing or malformed sidecar yields DeviceDimensions,
// and each absent, non-positive or oversized field falls back on its own.
func PageDimensions(sidecarPath string) Dimensions {
	if sidecarPath == "" {
		return DeviceDimensions
	}
	b, err := os.ReadFile(sidecarPath)
	if err != nil {
		log.Trace.Printf("sidecar %s: %v", sidecarPath, err)
		return DeviceDimensions
	}
	var content sidecar
	if err := json.Unmarshal(b, &content); err != nil {
		log.Trace.Printf("sidecar %s: %v", sidecarPath, err)
		return DeviceDimensions
	}
	return Dimensions{
		Width:  dimensionOr(content.CustomZoomPageWidth, rm.DeviceWidth),
		Height: dimensionOr(content.CustomZoomPageHeight, rm.DeviceHeight),
	}
}

// maxDimension bounds sidecar sizes and canvas growth
const maxDimension = 1 << 15

func dimensionOr(v *float64, fallback int) int {
	if v == nil || *v < 1 || *v > maxDimension {
		return fallback
	}
	return int(*v)
}

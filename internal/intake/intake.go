// Package intake validates and stages candidate files for extraction.
package intake

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leafletlens/client/internal/domain"
)

// Candidate is a file reference as received from the presentation layer,
// whether picked explicitly or dropped. Origin does not affect validation.
type Candidate struct {
	Name     string
	Size     int64
	MIMEType string
	Data     []byte
}

// Stage validates a candidate and produces the SelectedFile to hold for
// extraction. Only image files are accepted; anything else fails with
// domain.ErrNotAnImage and the caller must leave its prior staged file
// untouched.
func Stage(candidate Candidate) (*domain.SelectedFile, error) {
	if !strings.HasPrefix(candidate.MIMEType, "image/") {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotAnImage, candidate.MIMEType)
	}

	return &domain.SelectedFile{
		Name:     candidate.Name,
		Size:     candidate.Size,
		MIMEType: candidate.MIMEType,
		Data:     candidate.Data,
	}, nil
}

// sizeUnits are binary-prefixed, 1024-based.
var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count as a human-readable label, rounded
// to two decimal places with trailing zeros trimmed (12288 -> "12 KB").
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	exp := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if exp >= len(sizeUnits) {
		exp = len(sizeUnits) - 1
	}

	value := math.Round(float64(bytes)/math.Pow(1024, float64(exp))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[exp]
}

// SelectionLabel is the staged-file caption shown next to the upload area.
func SelectionLabel(file *domain.SelectedFile) string {
	return fmt.Sprintf("Selected: %s (%s)", file.Name, FormatFileSize(file.Size))
}

package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedFormat is returned when a template reference's suffix maps
// to no known import format. The template is skipped; the batch continues.
var ErrUnrecognizedFormat = errors.New("unrecognized template format")

// Format is a configuration.import source format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// InferFormat picks the import format from a source reference's suffix,
// case-insensitively. Only .yaml/.yml and .xml are recognized.
func InferFormat(ref string) (Format, error) {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, nil
	case strings.HasSuffix(lower, ".xml"):
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedFormat, ref)
	}
}

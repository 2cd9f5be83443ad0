package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/dsl"
)

// Format names a program representation.
type Format string

const (
	FormatText   Format = "text"
	FormatYAML   Format = "yaml"
	FormatBinary Format = "binary"
)

// DetectFormat picks the representation from the file extension.
// Anything unknown is read as program text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case file.Ext, ".bin":
		return FormatBinary
	default:
		return FormatText
	}
}

// LoadProgram reads a program from path, or from stdin when path is "-".
func LoadProgram(path string, stdin io.Reader) (*dsl.Program, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return DecodeProgram(DetectFormat(path), data)
}

// DecodeProgram parses data in the given representation.
func DecodeProgram(format Format, data []byte) (*dsl.Program, error) {
	switch format {
	case FormatYAML:
		return dsl.ParseYAML(data)
	case FormatBinary:
		return dsl.Decode(data)
	default:
		return dsl.ParseString(string(data))
	}
}

package ports

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aretw0/turing/pkg/dsl"
)

var (
	// ErrProgramNotFound is returned by Load when no program is stored under a name.
	ErrProgramNotFound = errors.New("program not found")
	// ErrInvalidName is returned for names that are empty or unsafe as keys and file names.
	ErrInvalidName = errors.New("invalid program name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName checks that name can be used as a store key.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ProgramStore defines the interface for persisting programs.
// Implementations store the binary form of the program, so a loaded program
// is equal to, but never shares memory with, the saved one.
type ProgramStore interface {
	// Save persists the program under name, replacing any previous program.
	Save(ctx context.Context, name string, prog *dsl.Program) error

	// Load retrieves the program stored under name.
	// Returns ErrProgramNotFound if the program does not exist.
	Load(ctx context.Context, name string) (*dsl.Program, error)

	// Delete removes the program. Deleting a missing program is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored program names in ascending order.
	List(ctx context.Context) ([]string, error)
}

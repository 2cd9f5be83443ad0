package dsl

import (
	"errors"
	"fmt"
	"slices"
	"unicode"

	"github.com/aretw0/turing/pkg/codec"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/engine"
)

var (
	// ErrSyntax is returned for a line that matches no known form.
	ErrSyntax = errors.New("unable to parse line")
	// ErrUnknownSymbol is returned when a symbol is used before it is declared in the charset.
	ErrUnknownSymbol = errors.New("symbol not in charset")
	// ErrBlankNotInCharset is returned when %blank names an undeclared symbol.
	ErrBlankNotInCharset = errors.New("blank symbol not in charset")
)

// Program is a configuration over runes plus its alphabet data.
type Program struct {
	Config  *domain.Configuration[rune]
	Charset []rune
	Blank   rune
	Memory  string
}

// NewProgram creates an empty program with the given charset. Whitespace
// runes are skipped; use AddSymbols to have them reported.
func NewProgram(charset ...rune) *Program {
	p := &Program{Config: domain.NewConfiguration[rune]()}
	_ = p.AddSymbols(charset...)
	return p
}

// HasSymbol reports whether r is in the charset.
func (p *Program) HasSymbol(r rune) bool { return slices.Contains(p.Charset, r) }

// AddSymbols extends the charset, ignoring symbols already present.
// Whitespace cannot be written in the text format, so whitespace runes are
// left out and reported with ErrSyntax.
func (p *Program) AddSymbols(symbols ...rune) error {
	var spaces []rune
	for _, r := range symbols {
		switch {
		case unicode.IsSpace(r):
			if !slices.Contains(spaces, r) {
				spaces = append(spaces, r)
			}
		case !p.HasSymbol(r):
			p.Charset = append(p.Charset, r)
		}
	}
	if len(spaces) > 0 {
		return fmt.Errorf("%w: whitespace symbol %s", ErrSyntax, quoteRunes(spaces))
	}
	return nil
}

// Unknown returns the distinct symbols of s that are not in the charset.
func (p *Program) Unknown(symbols ...rune) []rune {
	var out []rune
	for _, r := range symbols {
		if !p.HasSymbol(r) && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// SetBlank sets the blank symbol, which must be in the charset.
func (p *Program) SetBlank(r rune) error {
	if unicode.IsSpace(r) {
		return fmt.Errorf("%w: whitespace blank %q", ErrSyntax, r)
	}
	if !p.HasSymbol(r) {
		return fmt.Errorf("%w: %q", ErrBlankNotInCharset, r)
	}
	p.Blank = r
	return nil
}

// SetMemory sets the initial tape content. Every symbol must be in the charset.
func (p *Program) SetMemory(s string) error {
	if unknown := p.Unknown([]rune(s)...); len(unknown) > 0 {
		return unknownError(unknown)
	}
	p.Memory = s
	return nil
}

func unknownError(symbols []rune) error {
	return fmt.Errorf("%w: %s", ErrUnknownSymbol, quoteRunes(symbols))
}

func quoteRunes(symbols []rune) string {
	out := ""
	for i, r := range symbols {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", r)
	}
	return out
}

// NewMachine builds an engine for the program and loads the initial
// memory. Machines built from one Program share its Configuration.
func (p *Program) NewMachine(policy engine.Policy, opts ...engine.Option[rune]) (*engine.Machine[rune], error) {
	m, err := engine.New(p.Config, p.Blank, policy, opts...)
	if err != nil {
		return nil, err
	}
	m.Initialize([]rune(p.Memory))
	return m, nil
}

// Validate checks that every symbol used by a transition is in the charset
// and runs the structural checks of domain.Configuration.Validate.
func (p *Program) Validate() error {
	var errs []error
	for _, s := range p.Config.States() {
		for _, t := range s.Transitions() {
			if unknown := p.Unknown(append(t.Inputs(), t.Output())...); len(unknown) > 0 {
				errs = append(errs, &domain.ValidationError{
					State:  s.ID(),
					Reason: fmt.Sprintf("transition to %d: %v", t.Target(), unknownError(unknown)),
				})
			}
		}
	}
	if err := p.Config.Validate(); err != nil {
		errs = append(errs, domain.ValidationErrors(err)...)
	}
	if len(errs) > 0 {
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

// Equal compares charset, blank, memory and configuration.
func (p *Program) Equal(o *Program) bool {
	return slices.Equal(p.Charset, o.Charset) &&
		p.Blank == o.Blank &&
		p.Memory == o.Memory &&
		p.Config.Equal(o.Config)
}

// MarshalBinary encodes the program as a codec.Envelope.
func (p *Program) MarshalBinary() ([]byte, error) {
	return codec.EncodeEnvelope(codec.Envelope[rune]{
		Config:  p.Config,
		Blank:   p.Blank,
		Memory:  p.Memory,
		Charset: string(p.Charset),
	}, codec.Runes), nil
}

// UnmarshalBinary decodes a codec.Envelope into p.
func (p *Program) UnmarshalBinary(data []byte) error {
	env, err := codec.DecodeEnvelope(data, codec.Runes)
	if err != nil {
		return err
	}
	*p = Program{
		Config: env.Config,
		Blank:  env.Blank,
		Memory: env.Memory,
	}
	if err := p.AddSymbols([]rune(env.Charset)...); err != nil {
		return fmt.Errorf("%w: charset: %w", codec.ErrMalformed, err)
	}
	return nil
}

// Decode parses the binary form of a program.
func Decode(data []byte) (*Program, error) {
	p := &Program{}
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeBase64 parses the base64 text form of a program.
func DecodeBase64(s string) (*Program, error) {
	data, err := codec.DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Base64 returns the base64 text form of the program.
func (p *Program) Base64() string {
	data, _ := p.MarshalBinary()
	return codec.EncodeBase64(data)
}

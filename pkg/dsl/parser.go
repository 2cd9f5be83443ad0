package dsl

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

var (
	reComment    = regexp.MustCompile(`^(;|//|--)`)
	reCharset    = regexp.MustCompile(`(?i)^%charset((?:\s+\S+)+)$`)
	reBlank      = regexp.MustCompile(`(?i)^%blank\s+(\S)$`)
	reMemory     = regexp.MustCompile(`(?i)^%memory\s+(.+)$`)
	reState      = regexp.MustCompile(`(?i)^(>\s*)?([0-9]+)\s*([AR])?$`)
	reTransition = regexp.MustCompile(`(?i)^([0-9]+)\s+(\S+)\s*->\s*(\S)\s+([rl-])\s+([0-9]+)$`)
)

// ParseError reports the first line that could not be parsed.
type ParseError struct {
	Line int    // 1-based
	Text string // trimmed line text
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a program from r.
func Parse(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses program source text.
func ParseString(src string) (*Program, error) {
	return ParseLines(strings.Split(src, "\n"))
}

// ParseLines parses a program given as individual lines. Parsing stops at
// the first invalid line.
func ParseLines(lines []string) (*Program, error) {
	p := NewProgram()
	for i, raw := range lines {
		line := strings.TrimSpace(strings.ReplaceAll(raw, "\r", " "))
		if err := p.parseLine(line); err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
	}
	return p, nil
}

func (p *Program) parseLine(line string) error {
	if line == "" || reComment.MatchString(line) {
		return nil
	}
	if m := reCharset.FindStringSubmatch(line); m != nil {
		for _, tok := range strings.Fields(m[1]) {
			r, _ := utf8.DecodeRuneInString(tok)
			if err := p.AddSymbols(r); err != nil {
				return err
			}
		}
		return nil
	}
	if m := reBlank.FindStringSubmatch(line); m != nil {
		r, _ := utf8.DecodeRuneInString(m[1])
		return p.SetBlank(r)
	}
	if m := reMemory.FindStringSubmatch(line); m != nil {
		return p.SetMemory(m[1])
	}
	if m := reState.FindStringSubmatch(line); m != nil {
		id, err := parseID(m[2])
		if err != nil {
			return err
		}
		acc := domain.AcceptNone
		switch strings.ToLower(m[3]) {
		case "a":
			acc = domain.Accept
		case "r":
			acc = domain.Reject
		}
		p.declareState(id, acc)
		if m[1] != "" {
			p.Config.SetStartState(id)
		}
		return nil
	}
	if m := reTransition.FindStringSubmatch(line); m != nil {
		from, err := parseID(m[1])
		if err != nil {
			return err
		}
		to, err := parseID(m[5])
		if err != nil {
			return err
		}
		inputs := []rune(m[2])
		output, _ := utf8.DecodeRuneInString(m[3])
		if unknown := p.Unknown(append(inputs, output)...); len(unknown) > 0 {
			return unknownError(unknown)
		}
		return p.addTransition(from, to, parseAction(m[4]), output, inputs)
	}
	return ErrSyntax
}

// declareState adds a state or, when a transition has already declared it
// implicitly, sets its acceptance and keeps its transitions.
func (p *Program) declareState(id domain.StateID, acc domain.Acceptance) {
	if s, err := p.Config.State(id); err == nil {
		p.Config.AddState(s.WithAcceptance(acc))
		return
	}
	p.Config.AddState(domain.NewState[rune](id, acc))
}

// addTransition files the transition, declaring the source state on the
// fly when it has not been declared yet.
func (p *Program) addTransition(from, to domain.StateID, action domain.Action, output rune, inputs []rune) error {
	if _, err := p.Config.State(from); err != nil {
		p.Config.AddState(domain.NewState[rune](from, domain.AcceptNone))
	}
	return p.Config.AddTransition(from, to, action, output, inputs...)
}

func parseID(s string) (domain.StateID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: state id %s out of range", ErrSyntax, s)
	}
	return id, nil
}

func parseAction(s string) domain.Action {
	switch strings.ToLower(s) {
	case "l":
		return domain.MoveLeft
	case "r":
		return domain.MoveRight
	default:
		return domain.ActionNone
	}
}

func formatAction(a domain.Action) string {
	switch a {
	case domain.MoveLeft:
		return "l"
	case domain.MoveRight:
		return "r"
	default:
		return "-"
	}
}

package dsl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// yamlProgram is the structured document form of a Program.
type yamlProgram struct {
	Charset string      `yaml:"charset"`
	Blank   string      `yaml:"blank,omitempty"`
	Memory  string      `yaml:"memory,omitempty"`
	Start   uint64      `yaml:"start"`
	States  []yamlState `yaml:"states"`
}

type yamlState struct {
	ID          uint64           `yaml:"id"`
	Accept      string           `yaml:"accept,omitempty"`
	Transitions []yamlTransition `yaml:"transitions,omitempty"`
}

type yamlTransition struct {
	On    string `yaml:"on"`
	Write string `yaml:"write"`
	Move  string `yaml:"move"`
	To    uint64 `yaml:"to"`
}

var moveNames = map[domain.Action]string{
	domain.ActionNone: "none",
	domain.MoveLeft:   "left",
	domain.MoveRight:  "right",
}

// MarshalYAML implements yaml.Marshaler.
func (p *Program) MarshalYAML() (interface{}, error) {
	doc := yamlProgram{
		Charset: string(p.Charset),
		Memory:  p.Memory,
		Start:   p.Config.StartState(),
	}
	if p.HasSymbol(p.Blank) {
		doc.Blank = string(p.Blank)
	}
	for _, s := range p.Config.States() {
		ys := yamlState{ID: s.ID()}
		if s.Acceptance() != domain.AcceptNone {
			ys.Accept = s.Acceptance().String()
		}
		for _, t := range s.Transitions() {
			ys.Transitions = append(ys.Transitions, yamlTransition{
				On:    string(t.Inputs()),
				Write: string(t.Output()),
				Move:  moveNames[t.Action()],
				To:    t.Target(),
			})
		}
		doc.States = append(doc.States, ys)
	}
	return doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The same charset rules as the
// text format apply.
func (p *Program) UnmarshalYAML(value *yaml.Node) error {
	var doc yamlProgram
	if err := value.Decode(&doc); err != nil {
		return err
	}

	out := NewProgram()
	if err := out.AddSymbols([]rune(doc.Charset)...); err != nil {
		return err
	}
	if doc.Blank != "" {
		if err := out.SetBlank(single(doc.Blank)); err != nil {
			return err
		}
	}
	if err := out.SetMemory(doc.Memory); err != nil {
		return err
	}
	out.Config.SetStartState(doc.Start)

	for _, ys := range doc.States {
		acc, err := parseAcceptance(ys.Accept)
		if err != nil {
			return fmt.Errorf("state %d: %w", ys.ID, err)
		}
		out.declareState(ys.ID, acc)
		for _, yt := range ys.Transitions {
			action, err := parseMove(yt.Move)
			if err != nil {
				return fmt.Errorf("state %d: %w", ys.ID, err)
			}
			if utf8.RuneCountInString(yt.Write) != 1 || yt.On == "" {
				return fmt.Errorf("state %d: %w: transition needs input symbols and a single output symbol", ys.ID, ErrSyntax)
			}
			inputs := []rune(yt.On)
			output := single(yt.Write)
			if unknown := out.Unknown(append(inputs, output)...); len(unknown) > 0 {
				return fmt.Errorf("state %d: %w", ys.ID, unknownError(unknown))
			}
			if err := out.addTransition(ys.ID, yt.To, action, output, inputs); err != nil {
				return err
			}
		}
	}
	*p = *out
	return nil
}

// MarshalYAMLDocument renders the program as a YAML document.
func (p *Program) MarshalYAMLDocument() ([]byte, error) {
	return yaml.Marshal(p)
}

// ParseYAML reads a program from its YAML document form.
func ParseYAML(data []byte) (*Program, error) {
	p := &Program{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse program yaml: %w", err)
	}
	if p.Config == nil {
		return nil, fmt.Errorf("%w: empty yaml document", ErrSyntax)
	}
	return p, nil
}

func single(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func parseAcceptance(s string) (domain.Acceptance, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return domain.AcceptNone, nil
	case "accept", "a":
		return domain.Accept, nil
	case "reject", "r":
		return domain.Reject, nil
	default:
		return domain.AcceptNone, fmt.Errorf("%w: unknown acceptance %q", ErrSyntax, s)
	}
}

func parseMove(s string) (domain.Action, error) {
	switch strings.ToLower(s) {
	case "", "none", "-":
		return domain.ActionNone, nil
	case "left", "l":
		return domain.MoveLeft, nil
	case "right", "r":
		return domain.MoveRight, nil
	default:
		return domain.ActionNone, fmt.Errorf("%w: unknown move %q", ErrSyntax, s)
	}
}

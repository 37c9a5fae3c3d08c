package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputYAML = "yaml"
	outputJSON = "json"
)

func checkOutput() error {
	switch output {
	case outputText, outputYAML, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text, yaml or json)", output)
	}
}

// render writes v in the selected format; text falls back to the text func.
func render(w io.Writer, v any, text func(io.Writer) error) error {
	switch output {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return text(w)
	}
}

// settingView is the structured form of one setting.
type settingView struct {
	Key     string `json:"key" yaml:"key"`
	Present bool   `json:"present" yaml:"present"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func (v settingView) text(w io.Writer) error {
	if !v.Present {
		_, err := fmt.Fprintf(w, "%s: (unset)\n", v.Key)
		return err
	}
	b, err := json.Marshal(v.Value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", v.Key, b)
	return err
}

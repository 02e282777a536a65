package gotmpl

import (
	"encoding/json"
	"os"
)

// FixtureCase is one behavioral fixture. A case either calls a single
// helper directly (Function + Args) or parses and renders a template
// (Template + Data). Expected is the exact output string; ExpectError
// marks cases whose point is the failure, not the output.
type FixtureCase struct {
	Name        string         `json:"name"`
	Function    string         `json:"function,omitempty"`
	Args        []any          `json:"args,omitempty"`
	Template    string         `json:"template,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Expected    string         `json:"expected"`
	ExpectError bool           `json:"expect_error,omitempty"`
}

// FixtureResult is the outcome of replaying one fixture case.
type FixtureResult struct {
	Name     string `json:"name"`
	Output   string `json:"output,omitempty"`
	Rendered string `json:"rendered,omitempty"`
	Expected string `json:"expected"`
	Error    error  `json:"-"`
}

// Passed reports whether the case behaved as its fixture declares: error
// cases must fail, output cases must match Expected exactly.
func (r *FixtureResult) Passed(c *FixtureCase) bool {
	if c.ExpectError {
		return r.Error != nil
	}
	if r.Error != nil {
		return false
	}
	if c.Function != "" {
		return r.Output == r.Expected
	}
	return r.Rendered == r.Expected
}

// LoadFixtures reads a fixture case set from a JSON file.
func LoadFixtures(path string) ([]*FixtureCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []*FixtureCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// RunFixtures replays fixture cases against a registry. Function cases
// call the helper directly and stringify its result; template cases parse
// and render with the same registry. Replay never stops early; each case
// gets its own result.
func RunFixtures(registry *Registry, cases []*FixtureCase) []*FixtureResult {
	if registry == nil {
		registry = DefaultRegistry()
	}

	results := make([]*FixtureResult, 0, len(cases))
	for _, c := range cases {
		result := &FixtureResult{
			Name:     c.Name,
			Expected: c.Expected,
		}

		if c.Function != "" {
			value, err := registry.Call(nil, c.Function, c.Args)
			if err != nil {
				result.Error = err
			} else {
				result.Output = Stringify(value)
			}
			results = append(results, result)
			continue
		}

		engine, err := New(WithFunctions(registry))
		if err != nil {
			result.Error = err
			results = append(results, result)
			continue
		}
		rendered, err := engine.Render(c.Template, mapData(c.Data))
		if err != nil {
			result.Error = err
		} else {
			result.Rendered = rendered
		}
		results = append(results, result)
	}
	return results
}

// mapData normalizes a nil data map to a nil any so templates see the
// same root value a direct Render(nil) call would.
func mapData(data map[string]any) any {
	if data == nil {
		return nil
	}
	return data
}

package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is a YAML file describing a sequence of requests to run in order.
type Suite struct {
	Name     string         `yaml:"name"`
	Defaults *Defaults      `yaml:"defaults"`
	Requests []*RequestSpec `yaml:"requests"`

	// BaseDir is the directory the suite file was loaded from, used to
	// resolve relative schema paths. Not part of the YAML surface.
	BaseDir string `yaml:"-"`
}

// Defaults apply to every request in the suite unless overridden.
type Defaults struct {
	Headers         map[string]string `yaml:"headers"`
	Proxy           string            `yaml:"proxy"`
	FollowRedirects bool              `yaml:"followRedirects"`
	Compressed      bool              `yaml:"compressed"`
	Timeout         int               `yaml:"timeout"` // milliseconds
}

// RequestSpec is one request in a suite.
type RequestSpec struct {
	Name            string            `yaml:"name"`
	Method          string            `yaml:"method"`
	URL             string            `yaml:"url"`
	Headers         map[string]string `yaml:"headers"`
	Body            string            `yaml:"body"`
	Proxy           string            `yaml:"proxy"`
	FollowRedirects *bool             `yaml:"followRedirects"`
	Compressed      *bool             `yaml:"compressed"`
	Timeout         int               `yaml:"timeout"` // milliseconds
	Expect          *Expect           `yaml:"expect"`
}

// Expect lists the checks evaluated against a parsed response.
type Expect struct {
	Status         int               `yaml:"status"`
	HeaderContains map[string]string `yaml:"headerContains"`
	BodyContains   []string          `yaml:"bodyContains"`
	JSONPath       map[string]string `yaml:"jsonPath"`   // gjson path -> expected value
	JSONSchema     string            `yaml:"jsonSchema"` // path to a JSON schema file
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	suite := &Suite{}
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	suite.BaseDir = filepath.Dir(path)

	if len(suite.Requests) == 0 {
		return nil, fmt.Errorf("suite %s has no requests", path)
	}
	for i, req := range suite.Requests {
		if req.URL == "" {
			return nil, fmt.Errorf("request %d in %s has no url", i+1, path)
		}
		if req.Method == "" {
			req.Method = "GET"
		}
		if req.Name == "" {
			req.Name = fmt.Sprintf("%s %s", strings.ToUpper(req.Method), req.URL)
		}
	}

	return suite, nil
}

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"gopkg.in/yaml.v3"

	"github.com/matthewbaird/crisis/internal/types"
)

// schemaCUE constrains catalog files before they reach Validate, so that
// editors get CUE's error positions for typos in severity or category.
const schemaCUE = `
#Indicator: {
	keyword:           string & != ""
	severity:          "low" | "medium" | "high" | "critical"
	category:          "suicidal" | "self-harm" | "substance-abuse" | "violence" | "emergency" | "general-distress"
	context?:          [...string]
	immediate_action?: bool
}
indicators: [...#Indicator]
`

// document is the on-disk shape shared by CUE, YAML and JSON catalog files.
type document struct {
	Indicators []entry `json:"indicators" yaml:"indicators"`
}

type entry struct {
	Keyword         string   `json:"keyword" yaml:"keyword"`
	Severity        string   `json:"severity" yaml:"severity"`
	Category        string   `json:"category" yaml:"category"`
	Context         []string `json:"context,omitempty" yaml:"context,omitempty"`
	ImmediateAction bool     `json:"immediate_action,omitempty" yaml:"immediate_action,omitempty"`
}

// Load reads a catalog file, choosing the decoder by extension
// (.cue, .yaml/.yml or .json).
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("catalog %s: unsupported file type", path)
	}
}

// ParseCUE compiles data against the catalog schema and builds a catalog.
func ParseCUE(data []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", err)
	}

	val := ctx.CompileBytes(data, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating %s: %w", filename, err)
	}

	var doc document
	if err := unified.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return fromDocument(doc)
}

// ParseYAML builds a catalog from a YAML document.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml catalog: %w", err)
	}
	return fromDocument(doc)
}

// ParseJSON builds a catalog from a JSON document.
func ParseJSON(data []byte) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding json catalog: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (*Catalog, error) {
	if len(doc.Indicators) == 0 {
		return nil, ErrEmptyCatalog
	}
	entries := make([]types.CrisisIndicator, 0, len(doc.Indicators))
	for i, e := range doc.Indicators {
		sev, err := types.ParseSeverity(e.Severity)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Keyword, err)
		}
		ind := types.CrisisIndicator{
			Keyword:         e.Keyword,
			Severity:        sev,
			Category:        types.Category(e.Category),
			ImmediateAction: e.ImmediateAction,
		}
		if len(e.Context) > 0 {
			ind.Context = e.Context
		}
		entries = append(entries, ind)
	}
	return New(entries)
}

func toDocument(c *Catalog) document {
	doc := document{Indicators: make([]entry, 0, c.Len())}
	c.Each(func(ind types.CrisisIndicator) {
		doc.Indicators = append(doc.Indicators, entry{
			Keyword:         ind.Keyword,
			Severity:        ind.Severity.String(),
			Category:        string(ind.Category),
			Context:         append([]string{}, ind.Context...),
			ImmediateAction: ind.ImmediateAction,
		})
	})
	return doc
}

// ExportCUE renders c as a CUE document that ParseCUE accepts.
func ExportCUE(c *Catalog) ([]byte, error) {
	v := cuecontext.New().Encode(toDocument(c))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	b, err := format.Node(v.Syntax(cue.Final(), cue.Concrete(true)))
	if err != nil {
		return nil, fmt.Errorf("formatting catalog: %w", err)
	}
	return b, nil
}

// ExportYAML renders c as YAML.
func ExportYAML(c *Catalog) ([]byte, error) {
	return yaml.Marshal(toDocument(c))
}

// ExportJSON renders c as indented JSON.
func ExportJSON(c *Catalog) ([]byte, error) {
	return json.MarshalIndent(toDocument(c), "", "  ")
}

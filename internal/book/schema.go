package book

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://bookshelf.local/schemas/"

// Schema is a compiled JSON Schema for one kind of book payload.
type Schema struct {
	compiled *jsonschema.Schema
}

var (
	CreateSchema = mustLoadSchema("book_create.json")
	UpdateSchema = mustLoadSchema("book_update.json")
)

var rules = newRuleValidator()

func mustLoadSchema(name string) *Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaBaseURL+name, bytes.NewReader(raw)); err != nil {
		panic(err)
	}
	compiled, err := c.Compile(schemaBaseURL + name)
	if err != nil {
		panic(err)
	}
	return &Schema{compiled: compiled}
}

func newRuleValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses body and checks it against the schema. On success the
// decoded object is returned; otherwise every violation is listed.
func (s *Schema) Decode(body []byte) (map[string]any, []Violation) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, []Violation{{Field: "body", Message: "must be a valid JSON object"}}
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, []Violation{{Field: "body", Message: "must contain a single JSON object"}}
	}

	if err := s.compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, []Violation{{Field: "body", Message: err.Error()}}
		}
		return nil, s.violations(verr, doc)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, []Violation{{Field: "body", Message: "must be a JSON object"}}
	}
	return obj, nil
}

func (s *Schema) violations(verr *jsonschema.ValidationError, doc any) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		if strings.HasSuffix(e.KeywordLocation, "/required") {
			out = append(out, s.missing(doc)...)
			return
		}
		field := strings.TrimPrefix(e.InstanceLocation, "/")
		if field == "" {
			field = "body"
		}
		out = append(out, Violation{Field: field, Message: e.Message})
	}
	walk(verr)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func (s *Schema) missing(doc any) []Violation {
	obj, _ := doc.(map[string]any)
	var out []Violation
	for _, name := range s.compiled.Required {
		if _, ok := obj[name]; !ok {
			out = append(out, Violation{Field: name, Message: "is required"})
		}
	}
	return out
}

// bind copies a schema-valid document into a Book.
func bind(doc map[string]any) Book {
	return Book{
		ISBN:      str(doc["isbn"]),
		AmazonURL: str(doc["amazon_url"]),
		Author:    str(doc["author"]),
		Language:  str(doc["language"]),
		Pages:     integer(doc["pages"]),
		Publisher: str(doc["publisher"]),
		Title:     str(doc["title"]),
		Year:      integer(doc["year"]),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// integer accepts 250 as well as 250.0, both valid JSON Schema integers.
func integer(v any) int {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	f, _ := n.Float64()
	return int(f)
}

// ValidateBook applies the value rules that JSON Schema does not express.
func ValidateBook(b Book) []Violation {
	return ruleViolations(rules.Struct(b))
}

// validateFields checks every rule except the ones on the key, which on
// update comes from the path and is resolved by the store.
func validateFields(b Book) []Violation {
	return ruleViolations(rules.StructExcept(b, "ISBN"))
}

func ruleViolations(err error) []Violation {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Violation{{Field: "body", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "excludesall":
		return "must not contain any of " + strings.Join(strings.Split(fe.Param(), ""), " ")
	default:
		return "is invalid"
	}
}

// Package schema loads table and relation definitions from YAML and feeds
// them to a diagram.
package schema

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"flerd/internal/diagram"
)

type Field struct {
	Name    string `yaml:"name" validate:"required"`
	Type    string `yaml:"type"`
	Primary bool   `yaml:"primary"`
}

// Table is one entity definition. Top and Left are the initial placement
// used until the user moves the table.
type Table struct {
	Name   string  `yaml:"name" validate:"required"`
	Top    int     `yaml:"top"`
	Left   int     `yaml:"left"`
	Fields []Field `yaml:"fields" validate:"dive"`
}

type Relation struct {
	From      string `yaml:"from" validate:"required"`
	FromField string `yaml:"from_field" validate:"required"`
	To        string `yaml:"to" validate:"required"`
	ToField   string `yaml:"to_field" validate:"required"`
}

// Catalog is a parsed schema file.
type Catalog struct {
	Tables    []Table    `yaml:"tables" validate:"dive"`
	Relations []Relation `yaml:"relations" validate:"dive"`
}

var validate = validator.New()

// Load reads and parses a schema file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a schema document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks required names, unique table names and that every
// relation points at existing tables and fields.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	fields := make(map[string]map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if _, dup := fields[t.Name]; dup {
			return fmt.Errorf("invalid schema: duplicate table %q", t.Name)
		}
		names := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if names[f.Name] {
				return fmt.Errorf("invalid schema: duplicate field %s.%s", t.Name, f.Name)
			}
			names[f.Name] = true
		}
		fields[t.Name] = names
	}
	var errs []error
	for _, r := range c.Relations {
		for _, end := range [][2]string{{r.From, r.FromField}, {r.To, r.ToField}} {
			names, ok := fields[end[0]]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("relation references unknown table %q", end[0]))
			case !names[end[1]]:
				errs = append(errs, fmt.Errorf("relation references unknown field %s.%s", end[0], end[1]))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}
	return nil
}

// Apply registers every table with the diagram and declares every relation.
func (c *Catalog) Apply(d *diagram.Diagram) error {
	for _, t := range c.Tables {
		fields := make([]diagram.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = diagram.Field{Name: f.Name, Type: f.Type, Primary: f.Primary}
		}
		if _, err := d.AddEntityAt(t.Name, fields, diagram.Position{Top: t.Top, Left: t.Left}); err != nil {
			return err
		}
	}
	for _, r := range c.Relations {
		err := d.DeclareRelation(diagram.Relation{
			From:      r.From,
			FromField: r.FromField,
			To:        r.To,
			ToField:   r.ToField,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ParsedTag holds the parsed db struct tag configuration for a field.
type ParsedTag struct {
	ColumnName string // Database column name (explicit or derived from field name)
	Skip       bool   // Skip this field entirely (db:"-")
	Type       string // Custom database type override

	Primary bool
	NotNull bool
	Default string

	// Automatic timestamp management
	AutoNowAdd bool // Set to current time on INSERT only
	AutoNow    bool // Set to current time on INSERT and UPDATE

	// ID generation configuration
	AutoGenerate bool
	Generator    string // Generator name (uuid, ulid, snowflake, nanoid)
}

// EagerTag holds the parsed eager struct tag describing a relation slot.
//
// Supported forms:
//
//	`eager:"many2many;join:activity_tags;fk:activity_id;ref:tag_id"`
//	`eager:"generic;type:ActorType;id:ActorID"`
type EagerTag struct {
	Kind string // "many2many" or "generic"

	// many2many
	JoinTable  string // join table name
	ForeignKey string // join table column referencing the owner
	References string // join table column referencing the target

	// generic
	TypeField string // sibling Go field holding the type tag
	IDField   string // sibling Go field holding the target id
}

const (
	eagerKindMany2Many = "many2many"
	eagerKindGeneric   = "generic"
)

// TagParser parses db and eager struct tags with caching.
type TagParser struct {
	namingStrategy ColumnNamingStrategy
	tagName        string
	cache          map[string]*ParsedTag
	cacheMu        sync.RWMutex
}

func NewTagParser(namingStrategy ColumnNamingStrategy, tagName string) *TagParser {
	if tagName == "" {
		tagName = "db"
	}
	return &TagParser{
		namingStrategy: namingStrategy,
		tagName:        tagName,
		cache:          make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses the db tag of a field. Fields without a tag get a
// column name derived from the naming strategy.
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	tagValue := tag.Get(p.tagName)
	if tagValue == "" {
		return &ParsedTag{
			ColumnName: p.namingStrategy.ColumnName(fieldName),
		}, nil
	}

	cacheKey := fieldName + ":" + tagValue
	p.cacheMu.RLock()
	if cached, exists := p.cache[cacheKey]; exists {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed, err := p.parseTagValue(fieldName, tagValue)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldName, err)
	}

	p.cacheMu.Lock()
	p.cache[cacheKey] = parsed
	p.cacheMu.Unlock()
	return parsed, nil
}

func (p *TagParser) parseTagValue(fieldName, tagValue string) (*ParsedTag, error) {
	if tagValue == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{
		ColumnName: p.namingStrategy.ColumnName(fieldName),
	}

	// Simple column name, no options.
	if !strings.ContainsAny(tagValue, ";:") {
		parsed.ColumnName = tagValue
		return parsed, nil
	}

	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if err := parseOption(parsed, option); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

func parseOption(tag *ParsedTag, option string) error {
	if colonIdx := strings.IndexByte(option, ':'); colonIdx != -1 {
		key := strings.TrimSpace(option[:colonIdx])
		value := strings.TrimSpace(option[colonIdx+1:])
		switch key {
		case "column", "name":
			tag.ColumnName = value
		case "type":
			tag.Type = value
		case "default":
			tag.Default = value
		case "generator", "gen":
			tag.Generator = value
			tag.AutoGenerate = true
		default:
			// Ignore unknown key:value pairs for extensibility.
		}
		return nil
	}

	switch option {
	case "primary", "primary_key":
		tag.Primary = true
	case "not_null", "not null":
		tag.NotNull = true
	case "auto_now_add":
		tag.AutoNowAdd = true
	case "auto_now":
		tag.AutoNow = true
	case "auto_generate", "auto":
		tag.AutoGenerate = true
	default:
		// Ignore unknown flags for forward compatibility.
	}
	return nil
}

// ParseEagerTag parses the eager tag of a field. Returns nil when the
// field carries no eager tag.
func ParseEagerTag(fieldName string, tag reflect.StructTag) (*EagerTag, error) {
	tagValue := tag.Get("eager")
	if tagValue == "" {
		return nil, nil
	}

	parsed := &EagerTag{}
	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		colonIdx := strings.IndexByte(option, ':')
		if colonIdx == -1 {
			switch option {
			case eagerKindMany2Many, eagerKindGeneric:
				parsed.Kind = option
			default:
				return nil, fmt.Errorf("field %s: unknown eager kind %q", fieldName, option)
			}
			continue
		}

		key := strings.TrimSpace(option[:colonIdx])
		value := strings.TrimSpace(option[colonIdx+1:])
		switch key {
		case "join":
			parsed.JoinTable = value
		case "fk":
			parsed.ForeignKey = value
		case "ref":
			parsed.References = value
		case "type":
			parsed.TypeField = value
		case "id":
			parsed.IDField = value
		default:
			return nil, fmt.Errorf("field %s: unknown eager option %q", fieldName, key)
		}
	}

	switch parsed.Kind {
	case eagerKindMany2Many:
		if parsed.JoinTable == "" || parsed.ForeignKey == "" || parsed.References == "" {
			return nil, fmt.Errorf("field %s: many2many requires join, fk and ref", fieldName)
		}
	case eagerKindGeneric:
		if parsed.TypeField == "" || parsed.IDField == "" {
			return nil, fmt.Errorf("field %s: generic requires type and id", fieldName)
		}
	default:
		return nil, fmt.Errorf("field %s: eager tag missing kind", fieldName)
	}
	return parsed, nil
}

// ShouldAutoGenerate returns true if this field should have auto-generated values.
func (tag *ParsedTag) ShouldAutoGenerate() bool {
	return tag.AutoGenerate || tag.Generator != ""
}

// GetGenerator returns the configured ID generator instance, or nil.
func (tag *ParsedTag) GetGenerator() IDGenerator {
	if tag.Generator == "" {
		return nil
	}
	if generator, exists := defaultRegistry.Get(tag.Generator); exists {
		return generator
	}
	return nil
}

// IsSkipped returns true if this field should be skipped entirely.
func (tag *ParsedTag) IsSkipped() bool {
	return tag.Skip
}

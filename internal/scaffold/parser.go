package scaffold

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// typeAliases maps DSL type names to tags. Names not listed here pass through
// unchanged and are rejected by the mapper.
var typeAliases = map[string]TypeTag{
	"string":    TypeString,
	"str":       TypeString,
	"text":      TypeString,
	"char":      TypeString,
	"int":       TypeInteger,
	"integer":   TypeInteger,
	"float":     TypeFloat,
	"decimal":   TypeFloat,
	"double":    TypeFloat,
	"bool":      TypeBoolean,
	"boolean":   TypeBoolean,
	"date":      TypeDate,
	"datetime":  TypeDateTime,
	"timestamp": TypeDateTime,
	"time":      TypeTime,
	"reference": TypeReference,
	"ref":       TypeReference,
	"fk":        TypeReference,
}

// ParseTypeTag normalizes a DSL or description-file type name.
func ParseTypeTag(s string) TypeTag {
	key := strings.ToLower(strings.TrimSpace(s))
	if tag, ok := typeAliases[key]; ok {
		return tag
	}
	return TypeTag(key)
}

// ParseFields parses the --fields DSL into field descriptors.
// Format: "title:string,total:float,issued_on:date?,customer:ref(Customer)"
func ParseFields(fieldsStr string) ([]FieldDescriptor, error) {
	if fieldsStr == "" {
		return nil, nil
	}

	var fields []FieldDescriptor
	for _, part := range strings.Split(fieldsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, err := parseField(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	return fields, nil
}

// parseField parses "name:type", "name:type?" or "name:ref(Target)".
func parseField(spec string) (FieldDescriptor, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return FieldDescriptor{}, fmt.Errorf("invalid field spec %q: expected 'name:type'", spec)
	}

	name := strings.TrimSpace(parts[0])
	typeSpec := strings.TrimSpace(parts[1])

	if name == "" {
		return FieldDescriptor{}, fmt.Errorf("invalid field spec %q: empty field name", spec)
	}
	if typeSpec == "" {
		return FieldDescriptor{}, fmt.Errorf("invalid field spec %q: empty type", spec)
	}

	nullable := strings.HasSuffix(typeSpec, "?")
	if nullable {
		typeSpec = typeSpec[:len(typeSpec)-1]
	}

	field := FieldDescriptor{Name: name, Nullable: nullable}

	if open := strings.Index(typeSpec, "("); open > 0 && strings.HasSuffix(typeSpec, ")") {
		target := strings.TrimSpace(typeSpec[open+1 : len(typeSpec)-1])
		if target == "" {
			return FieldDescriptor{}, fmt.Errorf("invalid field spec %q: empty reference target", spec)
		}
		field.Metadata = map[string]string{MetaRelated: target}
		typeSpec = typeSpec[:open]
	}

	field.Type = ParseTypeTag(typeSpec)
	return field, nil
}

// BuildEntity builds an Entity from CLI inputs.
func BuildEntity(app, name, fieldsStr string) (*Entity, error) {
	fields, err := ParseFields(fieldsStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}

	entity := &Entity{App: app, Name: name, Fields: fields}
	if err := entity.Normalize(); err != nil {
		return nil, err
	}
	return entity, nil
}

// Normalize validates the app and entity names, converts the entity name to
// PascalCase and normalizes field type names. Field types are not checked
// against the mapper here; unknown types fail per artifact.
func (e *Entity) Normalize() error {
	if e.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	if e.App == "" {
		return fmt.Errorf("app name is required for entity %s", e.Name)
	}
	if !isValidIdentifier(ToSnakeCase(e.App)) {
		return fmt.Errorf("invalid app name %q: must start with a letter and contain only letters, digits and underscores", e.App)
	}
	if !isValidIdentifier(ToSnakeCase(e.Name)) {
		return fmt.Errorf("invalid entity name %q: must start with a letter and contain only letters, digits and underscores", e.Name)
	}
	e.Name = ToPascalCase(e.Name)

	seen := make(map[string]bool, len(e.Fields))
	for i := range e.Fields {
		f := &e.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("entity %s: field %d has no name", e.Name, i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("entity %s: duplicate field %q", e.Name, f.Name)
		}
		seen[f.Name] = true
		f.Type = ParseTypeTag(string(f.Type))
	}
	return nil
}

// isValidIdentifier checks if a string is a valid lowercase identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-z][a-z0-9_]*$`, s)
	return matched
}

// Name transformation helpers

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, "")
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// ToLabel converts a string to a human display label: "issued_on" -> "Issued On".
func ToLabel(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}

// splitWords splits a string into words (handles camelCase, PascalCase, snake_case, kebab-case).
// A run of capitals is one word up to its last capital when a lowercase letter
// follows: "HTTPServer" -> "HTTP", "Server".
func splitWords(s string) []string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsSpace(prev) && (!unicode.IsUpper(prev) || nextLower) {
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return strings.Fields(result.String())
}

// Pluralize returns a simple pluralized form of a word.
func Pluralize(s string) string {
	if s == "" {
		return s
	}

	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "x") ||
		strings.HasSuffix(s, "ch") || strings.HasSuffix(s, "sh") {
		return s + "es"
	}
	if strings.HasSuffix(s, "y") && len(s) > 1 {
		lastChar := s[len(s)-2]
		if lastChar != 'a' && lastChar != 'e' && lastChar != 'i' && lastChar != 'o' && lastChar != 'u' {
			return s[:len(s)-1] + "ies"
		}
	}
	return s + "s"
}

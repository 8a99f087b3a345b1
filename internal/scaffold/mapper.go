package scaffold

import (
	"fmt"
	"strings"
)

// typeInfo is the fixed per-tag mapping to target and storage tokens.
type typeInfo struct {
	Target  string // Dart primitive
	Storage string // SQLite column type
}

var typeTable = map[TypeTag]typeInfo{
	TypeString:    {Target: "String", Storage: "TEXT"},
	TypeInteger:   {Target: "int", Storage: "INTEGER"},
	TypeFloat:     {Target: "double", Storage: "REAL"},
	TypeBoolean:   {Target: "bool", Storage: "BOOLEAN"},
	TypeDate:      {Target: "DateTime", Storage: "DATE"},
	TypeDateTime:  {Target: "DateTime", Storage: "DATETIME"},
	TypeTime:      {Target: "String", Storage: "TIME"},
	TypeReference: {Target: "int", Storage: "INTEGER"},
}

// FragmentKind names one kind of per-field fragment.
type FragmentKind string

const (
	FragmentDeclaration FragmentKind = "declaration"
	FragmentAccessor    FragmentKind = "accessor"
	FragmentToStorage   FragmentKind = "to_storage"
	FragmentFromStorage FragmentKind = "from_storage"
	FragmentFormInput   FragmentKind = "form_input"
	FragmentColumn      FragmentKind = "column"
)

// FragmentKinds lists every fragment kind.
var FragmentKinds = []FragmentKind{
	FragmentDeclaration, FragmentAccessor, FragmentToStorage,
	FragmentFromStorage, FragmentFormInput, FragmentColumn,
}

const (
	declarationTmpl = "  final $Type$$Nullable$ $name$;"

	plainToStorage    = "      '$column$': $name$,"
	boolToStorage     = "      '$column$': $name$ == true ? 1 : 0,"
	dateToStorage     = "      '$column$': $name$$NullAccess$.toIso8601String(),"
	castFromStorage   = "      $name$: map['$column$'] as $Type$$Nullable$,"
	doubleFromStorage = "      $name$: (map['$column$'] as num$Nullable$)$NullAccess$.toDouble(),"
	boolFromStorage   = "      $name$: map['$column$'] == 1,"
	dateFromStorage   = "      $name$: $NullGuard$DateTime.parse(map['$column$'] as String),"

	plainColumn     = "        $column$ $Storage$$NotNull$"
	referenceColumn = "        $column$ $Storage$$NotNull$ REFERENCES $RelatedTable$(id)"

	groupInput = `    <div class="form-group" id="$model_name$-$column$">
      {{ form.$column$.label_tag }}
      {{ form.$column$ }}$HelpText$
    </div>`
	checkInput = `    <div class="form-check" id="$model_name$-$column$">
      {{ form.$column$ }}
      {{ form.$column$.label_tag }}$HelpText$
    </div>`
)

// fragmentTable is keyed by fragment kind then by type tag. It must be total.
var fragmentTable = map[FragmentKind]map[TypeTag]string{
	FragmentDeclaration: {
		TypeString:    declarationTmpl,
		TypeInteger:   declarationTmpl,
		TypeFloat:     declarationTmpl,
		TypeBoolean:   declarationTmpl,
		TypeDate:      declarationTmpl,
		TypeDateTime:  declarationTmpl,
		TypeTime:      declarationTmpl,
		TypeReference: declarationTmpl,
	},
	FragmentAccessor: {
		TypeString:    "{{ object.$column$ }}",
		TypeInteger:   "{{ object.$column$ }}",
		TypeFloat:     "{{ object.$column$|floatformat:2 }}",
		TypeBoolean:   `{{ object.$column$|yesno:"Yes,No" }}`,
		TypeDate:      `{{ object.$column$|date:"d/m/Y" }}`,
		TypeDateTime:  `{{ object.$column$|date:"d/m/Y H:i" }}`,
		TypeTime:      `{{ object.$column$|time:"H:i" }}`,
		TypeReference: "{{ object.$column$ }}",
	},
	FragmentToStorage: {
		TypeString:    plainToStorage,
		TypeInteger:   plainToStorage,
		TypeFloat:     plainToStorage,
		TypeBoolean:   boolToStorage,
		TypeDate:      dateToStorage,
		TypeDateTime:  dateToStorage,
		TypeTime:      plainToStorage,
		TypeReference: plainToStorage,
	},
	FragmentFromStorage: {
		TypeString:    castFromStorage,
		TypeInteger:   castFromStorage,
		TypeFloat:     doubleFromStorage,
		TypeBoolean:   boolFromStorage,
		TypeDate:      dateFromStorage,
		TypeDateTime:  dateFromStorage,
		TypeTime:      castFromStorage,
		TypeReference: castFromStorage,
	},
	FragmentFormInput: {
		TypeString:    groupInput,
		TypeInteger:   groupInput,
		TypeFloat:     groupInput,
		TypeBoolean:   checkInput,
		TypeDate:      groupInput,
		TypeDateTime:  groupInput,
		TypeTime:      groupInput,
		TypeReference: groupInput,
	},
	FragmentColumn: {
		TypeString:    plainColumn,
		TypeInteger:   plainColumn,
		TypeFloat:     plainColumn,
		TypeBoolean:   plainColumn,
		TypeDate:      plainColumn,
		TypeDateTime:  plainColumn,
		TypeTime:      plainColumn,
		TypeReference: referenceColumn,
	},
}

// excludedFields are managed by the base model and never generated.
var excludedFields = map[string]bool{
	"id":         true,
	"enabled":    true,
	"deleted":    true,
	"created_on": true,
	"createdOn":  true,
	"updated_on": true,
	"updatedOn":  true,
}

// IsExcluded reports whether a field name is managed by the base model.
func IsExcluded(name string) bool {
	return excludedFields[name]
}

// TargetType returns the Dart primitive for a tag.
func TargetType(tag TypeTag) (string, bool) {
	info, ok := typeTable[tag]
	return info.Target, ok
}

// StorageType returns the SQLite column type for a tag.
func StorageType(tag TypeTag) (string, bool) {
	info, ok := typeTable[tag]
	return info.Storage, ok
}

// MapField renders every fragment of one field. Excluded fields come back with
// no fragments. A tag missing from the type table fails with UnmappedFieldType.
func MapField(fd FieldDescriptor, entityName string) (FieldFragments, error) {
	frags := FieldFragments{Field: fd.Name}
	if IsExcluded(fd.Name) {
		return frags, nil
	}

	info, ok := typeTable[fd.Type]
	if !ok {
		return frags, NewError(CodeUnmappedFieldType, "map_field",
			"field %s.%s has unsupported type %q", entityName, fd.Name, fd.Type)
	}

	frags.Identifier = ToCamelCase(fd.Name)
	frags.StorageKey = ToSnakeCase(fd.Name)
	frags.Label = ToLabel(fd.Name)
	frags.Nullable = fd.Nullable
	if label := fd.Metadata[MetaLabel]; label != "" {
		frags.Label = label
	}

	values := fieldValues(fd, frags, info, entityName)

	rendered := make(map[FragmentKind]string, len(FragmentKinds))
	for _, kind := range FragmentKinds {
		tmpl, ok := fragmentTable[kind][fd.Type]
		if !ok {
			return frags, NewError(CodeUnmappedFieldType, "map_field",
				"no %s fragment for type %q", kind, fd.Type)
		}
		rendered[kind] = Render(tmpl, values)
	}

	frags.Declaration = rendered[FragmentDeclaration]
	frags.Accessor = rendered[FragmentAccessor]
	frags.ToStorage = rendered[FragmentToStorage]
	frags.FromStorage = rendered[FragmentFromStorage]
	frags.FormInput = rendered[FragmentFormInput]
	frags.Column = rendered[FragmentColumn]
	return frags, nil
}

func fieldValues(fd FieldDescriptor, frags FieldFragments, info typeInfo, entityName string) SubstitutionMap {
	values := SubstitutionMap{}
	values.Set("name", frags.Identifier)
	values.Set("column", frags.StorageKey)
	values.Set("Label", frags.Label)
	values.Set("Type", info.Target)
	values.Set("Storage", info.Storage)
	values.Set("model_name", strings.ToLower(ToPascalCase(entityName)))

	if fd.Nullable {
		values.Set("Nullable", "?")
		values.Set("NullAccess", "?")
		values.Set("NotNull", "")
		values.Set("NullGuard", fmt.Sprintf("map['%s'] == null ? null : ", frags.StorageKey))
	} else {
		values.Set("Nullable", "")
		values.Set("NullAccess", "")
		values.Set("NotNull", " NOT NULL")
		values.Set("NullGuard", "")
	}

	related := fd.Metadata[MetaRelated]
	if related == "" {
		related = strings.TrimSuffix(frags.StorageKey, "_id")
	}
	values.Set("RelatedTable", ToSnakeCase(related))

	help := ""
	if text := fd.Metadata[MetaHelp]; text != "" {
		help = "\n      <small class=\"form-text text-muted\">" + text + "</small>"
	}
	values.Set("HelpText", help)

	return values
}

// MapFields maps fields in declaration order, skipping excluded ones. It stops at
// the first unmapped type.
func MapFields(fields []FieldDescriptor, entityName string) ([]FieldFragments, error) {
	out := make([]FieldFragments, 0, len(fields))
	for _, fd := range fields {
		if IsExcluded(fd.Name) {
			continue
		}
		frags, err := MapField(fd, entityName)
		if err != nil {
			return nil, err
		}
		out = append(out, frags)
	}
	return out, nil
}

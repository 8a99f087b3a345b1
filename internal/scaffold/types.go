// Package scaffold holds the domain model of the generator: entities, field
// descriptors, the field codegen mapper, placeholder substitution and the
// artifact catalog.
package scaffold

// TypeTag is the abstract type of an entity field.
type TypeTag string

const (
	TypeString    TypeTag = "string"
	TypeInteger   TypeTag = "integer"
	TypeFloat     TypeTag = "float"
	TypeBoolean   TypeTag = "boolean"
	TypeDate      TypeTag = "date"
	TypeDateTime  TypeTag = "datetime"
	TypeTime      TypeTag = "time"
	TypeReference TypeTag = "reference"
)

// TypeTags lists every supported tag in declaration order.
var TypeTags = []TypeTag{
	TypeString, TypeInteger, TypeFloat, TypeBoolean,
	TypeDate, TypeDateTime, TypeTime, TypeReference,
}

// Metadata keys understood by the mapper.
const (
	MetaLabel   = "label"
	MetaHelp    = "help"
	MetaRelated = "related"
)

// FieldDescriptor describes one field of an entity.
type FieldDescriptor struct {
	Name     string            `yaml:"name" json:"name"`
	Type     TypeTag           `yaml:"type" json:"type"`
	Nullable bool              `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Entity is a named entity of an app with its ordered fields.
type Entity struct {
	App    string            `yaml:"app,omitempty" json:"app,omitempty"`
	Name   string            `yaml:"name" json:"name"`
	Fields []FieldDescriptor `yaml:"fields" json:"fields"`
}

// Template is a named template body containing $Identifier$ placeholders.
type Template struct {
	ID   string
	Body string
}

// ArtifactFile is a target file. A nil Content means the file does not exist.
type ArtifactFile struct {
	Path    string
	Content *string
}

// Exists reports whether the file was present when probed.
func (f ArtifactFile) Exists() bool {
	return f.Content != nil
}

// Reason explains the outcome of a merge.
type Reason string

const (
	ReasonCreated        Reason = "created"
	ReasonAppended       Reason = "appended"
	ReasonAlreadyPresent Reason = "already_present"
	ReasonLocked         Reason = "locked"
	ReasonError          Reason = "error"
)

// MergeResult is the outcome of merging one section into one file.
type MergeResult struct {
	Text   string
	Wrote  bool
	Reason Reason
}

// Import is an identifier that must be listed on the import line of a module.
type Import struct {
	Module string
	Name   string
}

// FieldFragments are the rendered snippets one field contributes to the artifacts.
type FieldFragments struct {
	Field       string // original descriptor name
	Identifier  string // camelCase: "issuedOn"
	StorageKey  string // snake_case: "issued_on"
	Label       string // display label: "Issued On"
	Nullable    bool
	Declaration string
	Accessor    string
	ToStorage   string
	FromStorage string
	FormInput   string
	Column      string
}

package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTablesAreTotal(t *testing.T) {
	for _, tag := range TypeTags {
		_, ok := typeTable[tag]
		assert.True(t, ok, "type table missing %s", tag)

		for _, kind := range FragmentKinds {
			_, ok := fragmentTable[kind][tag]
			assert.True(t, ok, "fragment table missing %s/%s", kind, tag)
		}
	}
}

func TestMapField(t *testing.T) {
	frags, err := MapField(FieldDescriptor{Name: "total", Type: TypeFloat}, "Invoice")
	require.NoError(t, err)

	assert.Equal(t, "total", frags.Identifier)
	assert.Equal(t, "Total", frags.Label)
	assert.Equal(t, "  final double total;", frags.Declaration)
	assert.Equal(t, "{{ object.total|floatformat:2 }}", frags.Accessor)
	assert.Equal(t, "      'total': total,", frags.ToStorage)
	assert.Equal(t, "      total: (map['total'] as num).toDouble(),", frags.FromStorage)
	assert.Equal(t, "        total REAL NOT NULL", frags.Column)
	assert.Contains(t, frags.FormInput, `class="form-group" id="invoice-total"`)
	assert.Contains(t, frags.FormInput, "{{ form.total.label_tag }}")
}

func TestMapField_Nullable(t *testing.T) {
	frags, err := MapField(FieldDescriptor{Name: "issued_on", Type: TypeDate, Nullable: true}, "Invoice")
	require.NoError(t, err)

	assert.Equal(t, "issuedOn", frags.Identifier)
	assert.Equal(t, "issued_on", frags.StorageKey)
	assert.Equal(t, "Issued On", frags.Label)
	assert.Equal(t, "  final DateTime? issuedOn;", frags.Declaration)
	assert.Equal(t, "      'issued_on': issuedOn?.toIso8601String(),", frags.ToStorage)
	assert.Equal(t,
		"      issuedOn: map['issued_on'] == null ? null : DateTime.parse(map['issued_on'] as String),",
		frags.FromStorage)
	assert.Equal(t, "        issued_on DATE", frags.Column)
	assert.True(t, frags.Nullable)
}

func TestMapField_BooleanUsesCheckbox(t *testing.T) {
	frags, err := MapField(FieldDescriptor{Name: "paid", Type: TypeBoolean}, "Invoice")
	require.NoError(t, err)

	assert.Contains(t, frags.FormInput, `class="form-check"`)
	assert.Equal(t, "      'paid': paid == true ? 1 : 0,", frags.ToStorage)
}

func TestMapField_Reference(t *testing.T) {
	frags, err := MapField(FieldDescriptor{
		Name:     "customer_id",
		Type:     TypeReference,
		Metadata: map[string]string{MetaRelated: "Customer"},
	}, "Invoice")
	require.NoError(t, err)
	assert.Equal(t, "        customer_id INTEGER NOT NULL REFERENCES customer(id)", frags.Column)

	frags, err = MapField(FieldDescriptor{Name: "vendor_id", Type: TypeReference}, "Invoice")
	require.NoError(t, err)
	assert.Equal(t, "        vendor_id INTEGER NOT NULL REFERENCES vendor(id)", frags.Column)
}

func TestMapField_Metadata(t *testing.T) {
	frags, err := MapField(FieldDescriptor{
		Name: "due",
		Type: TypeDate,
		Metadata: map[string]string{
			MetaLabel: "Due date $ModelClass$",
			MetaHelp:  "Last day to pay",
		},
	}, "Invoice")
	require.NoError(t, err)

	assert.Equal(t, "Due date $ModelClass$", frags.Label)
	assert.Contains(t, frags.FormInput, "Last day to pay")
}

func TestMapField_Excluded(t *testing.T) {
	for _, name := range []string{"id", "enabled", "deleted", "created_on", "createdOn", "updated_on", "updatedOn"} {
		t.Run(name, func(t *testing.T) {
			frags, err := MapField(FieldDescriptor{Name: name, Type: TypeDateTime}, "Invoice")
			require.NoError(t, err)
			assert.Equal(t, FieldFragments{Field: name}, frags)
		})
	}
}

func TestMapField_UnmappedType(t *testing.T) {
	_, err := MapField(FieldDescriptor{Name: "blob", Type: TypeTag("binary")}, "Invoice")
	require.Error(t, err)
	assert.Equal(t, CodeUnmappedFieldType, CodeOf(err))
}

func TestMapFields(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "id", Type: TypeInteger},
		{Name: "total", Type: TypeFloat},
		{Name: "created_on", Type: TypeDateTime},
		{Name: "issued_on", Type: TypeDate, Nullable: true},
	}

	frags, err := MapFields(fields, "Invoice")
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, "total", frags[0].Field)
	assert.Equal(t, "issued_on", frags[1].Field)

	_, err = MapFields(append(fields, FieldDescriptor{Name: "x", Type: "money"}), "Invoice")
	assert.True(t, IsCode(err, CodeUnmappedFieldType))
}

func TestTargetAndStorageType(t *testing.T) {
	target, ok := TargetType(TypeBoolean)
	assert.True(t, ok)
	assert.Equal(t, "bool", target)

	storage, ok := StorageType(TypeDateTime)
	assert.True(t, ok)
	assert.Equal(t, "DATETIME", storage)

	_, ok = StorageType("money")
	assert.False(t, ok)
}

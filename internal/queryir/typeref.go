package queryir

import (
	"strconv"
	"strings"
)

// TypeKind classifies a TypeRef.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindBoolean
	KindString
	KindInt32
	KindInt64
	KindDouble
	KindDecimal
	KindGuid
	KindDate
	KindDateTimeOffset
	KindTimeOfDay
	KindDuration
	KindEnum
	KindEntity
	KindComplex
	KindCollection
)

// TypeRef is a reference to a model type as resolved by the front end.
type TypeRef struct {
	Kind TypeKind
	Name string // qualified name, e.g. "Edm.String" or "Sales.Color"

	// Element is the element type of a collection.
	Element *TypeRef

	// Members and IsFlags describe enum types.
	Members []EnumMember
	IsFlags bool
}

// EnumMember is one named value of an enum type.
type EnumMember struct {
	Name  string
	Value int64
}

// Primitive type references.
var (
	Boolean        = TypeRef{Kind: KindBoolean, Name: "Edm.Boolean"}
	String         = TypeRef{Kind: KindString, Name: "Edm.String"}
	Int32          = TypeRef{Kind: KindInt32, Name: "Edm.Int32"}
	Int64          = TypeRef{Kind: KindInt64, Name: "Edm.Int64"}
	Double         = TypeRef{Kind: KindDouble, Name: "Edm.Double"}
	Decimal        = TypeRef{Kind: KindDecimal, Name: "Edm.Decimal"}
	Guid           = TypeRef{Kind: KindGuid, Name: "Edm.Guid"}
	Date           = TypeRef{Kind: KindDate, Name: "Edm.Date"}
	DateTimeOffset = TypeRef{Kind: KindDateTimeOffset, Name: "Edm.DateTimeOffset"}
	TimeOfDay      = TypeRef{Kind: KindTimeOfDay, Name: "Edm.TimeOfDay"}
	Duration       = TypeRef{Kind: KindDuration, Name: "Edm.Duration"}
)

// EntityType returns a reference to the named entity type.
func EntityType(name string) TypeRef {
	return TypeRef{Kind: KindEntity, Name: name}
}

// ComplexType returns a reference to the named complex type.
func ComplexType(name string) TypeRef {
	return TypeRef{Kind: KindComplex, Name: name}
}

// CollectionOf returns a collection type over elem.
func CollectionOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindCollection, Element: &elem}
}

// EnumType returns a reference to an enum type with the given members.
func EnumType(name string, flags bool, members ...EnumMember) TypeRef {
	return TypeRef{Kind: KindEnum, Name: name, Members: members, IsFlags: flags}
}

// QualifiedName returns the name used when the type appears as a path segment.
func (t TypeRef) QualifiedName() string {
	if t.Kind == KindCollection && t.Element != nil {
		return "Collection(" + t.Element.QualifiedName() + ")"
	}
	return t.Name
}

func (t TypeRef) IsEnum() bool { return t.Kind == KindEnum }

func (t TypeRef) IsGuid() bool { return t.Kind == KindGuid }

// IsTemporal reports whether literals of the type are quoted verbatim:
// Date and DateTimeOffset.
func (t TypeRef) IsTemporal() bool {
	return t.Kind == KindDate || t.Kind == KindDateTimeOffset
}

// EnumLiteral renders an integer enum value by member name, without the
// namespace qualifier. Flags values combine their member names; a value
// with no matching member renders as its decimal text.
func (t TypeRef) EnumLiteral(value int64) string {
	for _, m := range t.Members {
		if m.Value == value {
			return m.Name
		}
	}

	if t.IsFlags && value > 0 {
		var names []string
		remaining := value
		for _, m := range t.Members {
			if m.Value != 0 && value&m.Value == m.Value {
				names = append(names, m.Name)
				remaining &^= m.Value
			}
		}
		if remaining == 0 && len(names) > 0 {
			return strings.Join(names, ", ")
		}
	}

	return strconv.FormatInt(value, 10)
}

package format

type (
	// PropertyType is the one-byte tag stored with every property record.
	PropertyType uint8
	// IndexType distinguishes the kinds of redundant lookup structures.
	IndexType uint8
	// CompressionType selects the codec used for persisted index pages.
	CompressionType uint8
)

// Property type tags. The short-text tags encode the inline byte length in
// their low nibble: TypeText1 holds one payload byte, TypeText8 holds eight.
const (
	TypeNothing   PropertyType = 0x00 // nothing properties are deleted
	TypeInteger   PropertyType = 0x01
	TypeReal      PropertyType = 0x02
	TypeFraction  PropertyType = 0x03 // reserved, not implemented
	TypeComplex   PropertyType = 0x04 // reserved, not implemented
	TypeUnichar   PropertyType = 0x05 // reserved, not implemented
	TypeEmptyText PropertyType = 0x10
	TypeText1     PropertyType = 0x11
	TypeText2     PropertyType = 0x12
	TypeText3     PropertyType = 0x13
	TypeText4     PropertyType = 0x14
	TypeText5     PropertyType = 0x15
	TypeText6     PropertyType = 0x16
	TypeText7     PropertyType = 0x17
	TypeText8     PropertyType = 0x18
	TypeLongText  PropertyType = 0x19
	TypeDatetime  PropertyType = 0x20 // 64-bit unix timestamp
	TypeDate      PropertyType = 0x21 // reserved, not implemented
	TypeTime      PropertyType = 0x22 // reserved, not implemented
	TypeFalse     PropertyType = 0x30
	TypeTrue      PropertyType = 0x31
	TypeArray     PropertyType = 0x40 // reserved, not implemented
	TypeMap       PropertyType = 0x41 // reserved, not implemented
	TypeBinary    PropertyType = 0x42 // reserved, not implemented
)

// Index type tags.
const (
	IndexUnused    IndexType = 0x00
	IndexClassName IndexType = 0x01 // classes by name
	IndexLabelText IndexType = 0x02 // labels by text value
	IndexEdge      IndexType = 0x03 // edges by label and endpoint classes
	IndexClassIDs  IndexType = 0x04 // vertex ids belonging to a class
	IndexProperty  IndexType = 0x05 // vertices in a class by a property
)

// Compression types for index pages.
const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

// IsText reports whether the tag denotes a textual property, inline or not.
func (p PropertyType) IsText() bool {
	return p >= TypeEmptyText && p <= TypeLongText
}

// IsShortText reports whether the tag stores its text inline in the payload.
func (p PropertyType) IsShortText() bool {
	return p >= TypeEmptyText && p <= TypeText8
}

// IsBoolean reports whether the tag encodes a boolean value.
func (p PropertyType) IsBoolean() bool {
	return p == TypeFalse || p == TypeTrue
}

func (p PropertyType) String() string {
	switch {
	case p == TypeNothing:
		return "Nothing"
	case p == TypeInteger:
		return "Integer"
	case p == TypeReal:
		return "Real"
	case p == TypeDatetime:
		return "Datetime"
	case p == TypeFalse || p == TypeTrue:
		return "Boolean"
	case p == TypeLongText:
		return "LongText"
	case p.IsShortText():
		return "Text"
	default:
		return "Unknown"
	}
}

func (i IndexType) String() string {
	switch i {
	case IndexUnused:
		return "Unused"
	case IndexClassName:
		return "ClassName"
	case IndexLabelText:
		return "LabelText"
	case IndexEdge:
		return "Edge"
	case IndexClassIDs:
		return "ClassIDs"
	case IndexProperty:
		return "Property"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

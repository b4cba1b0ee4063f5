package record

import (
	"github.com/fabricdb/fabricdb/endian"
	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/format"
)

// PropertySize is the on-disk size of a property record in bytes.
const PropertySize = 17

// Property is a typed key/value pair attached to a vertex or an edge. The
// key is an interned label; the value lives in eight payload bytes whose
// interpretation is selected by the type tag: integers, reals, and
// datetimes as big-endian 64-bit images, booleans in the tag itself, text
// of up to eight bytes inline, and longer text as a text-store id.
//
// A property is marked not-in-use by zeroing its label id; while the slot
// is free, the next-property field aliases the free-list link.
type Property struct {
	ID      uint32              // slot id, assigned by the property store
	LabelID uint32              // byte offset 0-3, zero when the slot is free
	NextID  uint32              // byte offset 4-7, aliases the free-list link
	Type    format.PropertyType // byte offset 8
	Data    [8]byte             // byte offset 9-16, tag-dependent payload
}

// NewProperty creates an in-memory property with its slot id set.
func NewProperty(id uint32) *Property {
	return &Property{ID: id}
}

// Parse decodes the 17-byte slot image. The id must be set first.
func (p *Property) Parse(data []byte) error {
	if p.ID < 1 {
		return errs.ErrRecordIDUnset
	}

	engine := endian.Big()
	p.LabelID = engine.Uint32(data[0:4])
	p.NextID = engine.Uint32(data[4:8])
	p.Type = format.PropertyType(data[8])
	copy(p.Data[:], data[9:17])

	return nil
}

// Bytes serializes the property into its 17-byte slot image.
func (p *Property) Bytes() []byte {
	b := make([]byte, PropertySize)
	engine := endian.Big()

	engine.PutUint32(b[0:4], p.LabelID)
	engine.PutUint32(b[4:8], p.NextID)
	b[8] = byte(p.Type)
	copy(b[9:17], p.Data[:])

	return b
}

// InUse reports whether the slot holds a live property.
func (p *Property) InUse() bool {
	return p.LabelID != 0
}

// HasNext reports whether another property follows in the owner's chain.
func (p *Property) HasNext() bool {
	return p.NextID != 0
}

// SetInteger stores a signed 64-bit value.
func (p *Property) SetInteger(v int64) {
	p.Type = format.TypeInteger
	endian.PutInt64(p.Data[:], v)
}

// Integer returns the payload as a signed 64-bit value.
func (p *Property) Integer() int64 {
	return endian.Int64(p.Data[:])
}

// SetReal stores an IEEE-754 double.
func (p *Property) SetReal(v float64) {
	p.Type = format.TypeReal
	endian.PutFloat64(p.Data[:], v)
}

// Real returns the payload as an IEEE-754 double.
func (p *Property) Real() float64 {
	return endian.Float64(p.Data[:])
}

// SetBoolean stores a boolean. The value lives in the type tag; the
// payload stays untouched.
func (p *Property) SetBoolean(v bool) {
	if v {
		p.Type = format.TypeTrue
	} else {
		p.Type = format.TypeFalse
	}
}

// Boolean returns the tag-encoded boolean value.
func (p *Property) Boolean() bool {
	return p.Type == format.TypeTrue
}

// SetDatetime stores a 64-bit unix timestamp.
func (p *Property) SetDatetime(v int64) {
	p.Type = format.TypeDatetime
	endian.PutInt64(p.Data[:], v)
}

// Datetime returns the payload as a 64-bit unix timestamp.
func (p *Property) Datetime() int64 {
	return endian.Int64(p.Data[:])
}

// SetShortText stores up to eight bytes of text inline. The byte length is
// encoded in the type tag; longer values must go through the text store
// and SetTextID.
func (p *Property) SetShortText(s string) {
	p.Type = format.TypeEmptyText + format.PropertyType(len(s))
	p.Data = [8]byte{}
	copy(p.Data[:], s)
}

// ShortTextLen returns the inline text length encoded in the tag, or -1
// when the property is not short text.
func (p *Property) ShortTextLen() int {
	if !p.Type.IsShortText() {
		return -1
	}

	return int(p.Type - format.TypeEmptyText)
}

// ShortText returns the inline text value.
func (p *Property) ShortText() string {
	n := p.ShortTextLen()
	if n <= 0 {
		return ""
	}

	return string(p.Data[:n])
}

// SetTextID stores a reference to a long text record.
func (p *Property) SetTextID(textID uint32) {
	p.Type = format.TypeLongText
	p.Data = [8]byte{}
	endian.Big().PutUint32(p.Data[0:4], textID)
}

// TextID returns the referenced text record id, or 0 when the property is
// not long text.
func (p *Property) TextID() uint32 {
	if p.Type != format.TypeLongText {
		return 0
	}

	return endian.Big().Uint32(p.Data[0:4])
}

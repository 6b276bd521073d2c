package lookup

import (
	"slices"
)

// Payload is the decoded response of one provider profile.
// Implementations are *TermPayload and *PathPayload; renderers switch on the
// concrete type.
type Payload interface {
	// Empty reports whether the response object had no members at all.
	Empty() bool
	// Keys lists the top-level member names, sorted.
	Keys() []string
	// Field returns a top-level member by name.
	Field(key string) Value

	payload()
}

type object map[string]any

func (o object) Empty() bool {
	return len(o) == 0
}

func (o object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (o object) Field(key string) Value {
	return fieldOf(o, key)
}

func (object) payload() {}

// TermPayload is the flat response of the key/term profile.
type TermPayload struct {
	object

	Number        Value
	Carrier       Value
	Operator      Value
	Type          Value
	LineType      Value
	Location      Value
	Region        Value
	Country       Value
	CountryCode   Value
	CountryPrefix Value
	Valid         Value
	Ported        Value

	// Error is set by the provider on a 2xx response that carries no data.
	Error Value
}

// TermExtraFields are optional members shown after the core fields, in order.
var TermExtraFields = []string{"name", "status", "timezone", "cnam", "spamScore"}

// TermBookkeepingFields are members never listed as available data.
var TermBookkeepingFields = []string{"success", "error"}

// NewTermPayload builds a TermPayload from a decoded JSON object.
func NewTermPayload(m map[string]any) *TermPayload {
	o := object(m)
	return &TermPayload{
		object:        o,
		Number:        o.Field("number"),
		Carrier:       o.Field("carrier"),
		Operator:      o.Field("operator"),
		Type:          o.Field("type"),
		LineType:      o.Field("lineType"),
		Location:      o.Field("location"),
		Region:        o.Field("region"),
		Country:       o.Field("country"),
		CountryCode:   o.Field("countryCode"),
		CountryPrefix: o.Field("countryPrefix"),
		Valid:         o.Field("valid"),
		Ported:        o.Field("ported"),
		Error:         o.Field("error"),
	}
}

// DataKeys lists member names excluding bookkeeping ones.
func (p *TermPayload) DataKeys() []string {
	keys := p.Keys()
	return slices.DeleteFunc(keys, func(k string) bool {
		return slices.Contains(TermBookkeepingFields, k)
	})
}

// PathPayload is the response of the path profile. Country data arrives as a
// nested object with name, code and prefix members.
type PathPayload struct {
	object

	Phone    Value
	Country  Value
	Carrier  Value
	Operator Value
	Type     Value
	LineType Value
	Location Value
	Region   Value
	Valid    Value
}

// PathExtraFields are optional members shown after the core fields, in order.
var PathExtraFields = []string{"timezone", "status"}

// NewPathPayload builds a PathPayload from a decoded JSON object.
func NewPathPayload(m map[string]any) *PathPayload {
	o := object(m)
	return &PathPayload{
		object:   o,
		Phone:    o.Field("phone"),
		Country:  o.Field("country"),
		Carrier:  o.Field("carrier"),
		Operator: o.Field("operator"),
		Type:     o.Field("type"),
		LineType: o.Field("line_type"),
		Location: o.Field("location"),
		Region:   o.Field("region"),
		Valid:    o.Field("valid"),
	}
}

// CountryName returns country.name.
func (p *PathPayload) CountryName() Value { return p.Country.Get("name") }

// CountryCode returns country.code (ISO 3166 alpha-2).
func (p *PathPayload) CountryCode() Value { return p.Country.Get("code") }

// CountryPrefix returns country.prefix (calling code).
func (p *PathPayload) CountryPrefix() Value { return p.Country.Get("prefix") }

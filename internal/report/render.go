package report

import (
	"fmt"
	"strings"

	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// extraLabels names provider extras whose key does not title-case well.
var extraLabels = map[string]string{
	"cnam":      "CNAM",
	"spamScore": "Spam Score",
}

// Render turns a lookup result into the final reply for input.
// It never panics: whatever the payload looks like, a report comes back.
func Render(result lookup.Result, input, providerName string) (rep Report) {
	defer func() {
		if r := recover(); r != nil {
			rep = NotFound(input)
		}
	}()

	if f, failed := result.Failure(); failed {
		return FailureReport(input, f)
	}

	payload, _ := result.Payload()
	if payload == nil || payload.Empty() {
		return NotFound(input)
	}

	switch p := payload.(type) {
	case *lookup.TermPayload:
		if p.Error.Present() {
			msg, _ := p.Error.Text()
			return errorLine(input, msg)
		}
		return renderTerm(p, input, providerName)
	case *lookup.PathPayload:
		return renderPath(p, input, providerName)
	default:
		b := newBuilder(input)
		b.fallback(nil)
		return b.finish(providerName)
	}
}

// FailureReport renders a failed lookup as a single line naming input and the reason.
func FailureReport(input string, f *lookup.Failure) Report {
	return errorLine(input, failureReason(f))
}

func failureReason(f *lookup.Failure) string {
	if f == nil {
		return "Unexpected error"
	}
	switch f.Kind {
	case lookup.KindTimeout:
		return "Request timeout - API is taking too long to respond"
	case lookup.KindHTTP:
		return fmt.Sprintf("API returned status code: %d", f.StatusCode)
	case lookup.KindNetwork:
		return "Network error - " + f.Message
	default:
		return "Unexpected error - " + f.Message
	}
}

func errorLine(input, reason string) Report {
	var r Report
	r.Add(Plain("❌ Error fetching information for "), Code(input), Plain(": "+reason))
	return r
}

// NotFound is the reply when the provider returned nothing.
func NotFound(input string) Report {
	var r Report
	r.Add(Plain("❌ No information found for "), Code(input))
	r.Blank()
	r.Add(Plain("💡 Try with a different number format or check if the number is valid."))
	return r
}

func renderTerm(p *lookup.TermPayload, input, providerName string) Report {
	b := newBuilder(input)
	b.codeField("🔧", "Number", p.Number)

	b.field("🌍", "Country", p.Country)
	b.field("🔤", "Country Code", p.CountryCode)
	b.field("☎️", "Calling Code", p.CountryPrefix)

	b.first(
		labeled{"📡", "Carrier", p.Carrier},
		labeled{"📡", "Operator", p.Operator},
	)
	b.firstTitled(
		labeled{"📊", "Type", p.Type},
		labeled{"📊", "Line Type", p.LineType},
	)
	b.first(
		labeled{"📍", "Location", p.Location},
		labeled{"📍", "Region", p.Region},
	)

	b.flag("✓", "Validity", p.Valid, "✅ Valid", "❌ Invalid")
	b.flag("🔄", "Ported", p.Ported, "✅ Yes", "❌ No")
	b.extras(p, lookup.TermExtraFields)

	b.fallback(p.DataKeys())
	return b.finish(providerName)
}

func renderPath(p *lookup.PathPayload, input, providerName string) Report {
	b := newBuilder(input)
	b.codeField("🔧", "Number", p.Phone)

	if p.Country.IsObject() {
		b.field("🌍", "Country", p.CountryName())
		b.field("🔤", "Country Code", p.CountryCode())
		b.field("☎️", "Calling Code", p.CountryPrefix())
	} else {
		b.field("🌍", "Country", p.Country)
	}

	b.first(
		labeled{"📡", "Carrier", p.Carrier},
		labeled{"📡", "Operator", p.Operator},
	)
	b.firstTitled(
		labeled{"📊", "Type", p.Type},
		labeled{"📊", "Line Type", p.LineType},
	)
	b.first(
		labeled{"📍", "Location", p.Location},
		labeled{"📍", "Region", p.Region},
	)

	b.flag("✓", "Validity", p.Valid, "✅ Valid", "❌ Invalid")
	b.extras(p, lookup.PathExtraFields)

	b.fallback(nil)
	return b.finish(providerName)
}

type labeled struct {
	icon  string
	label string
	value lookup.Value
}

// builder accumulates detail lines after the title and the input echo.
type builder struct {
	r       Report
	details int
}

func newBuilder(input string) *builder {
	b := &builder{}
	b.r.Add(Plain("📱 "), Bold("Phone Number Information"))
	b.r.Add(Plain("🔢 "), Bold("Original:"), Plain(" "), Code(input))
	return b
}

func (b *builder) add(spans ...Span) {
	b.r.Add(spans...)
	b.details++
}

func (b *builder) field(icon, label string, v lookup.Value) bool {
	s, ok := v.Text()
	if !ok {
		return false
	}
	b.add(Plain(icon+" "), Bold(label+":"), Plain(" "+s))
	return true
}

func (b *builder) codeField(icon, label string, v lookup.Value) {
	if s, ok := v.Text(); ok {
		b.add(Plain(icon+" "), Bold(label+":"), Plain(" "), Code(s))
	}
}

// first emits the first candidate that has a value.
func (b *builder) first(candidates ...labeled) {
	for _, c := range candidates {
		if b.field(c.icon, c.label, c.value) {
			return
		}
	}
}

// firstTitled is first with the value title-cased.
func (b *builder) firstTitled(candidates ...labeled) {
	for _, c := range candidates {
		if s, ok := c.value.Text(); ok {
			b.add(Plain(c.icon+" "), Bold(c.label+":"), Plain(" "+titleCase(s)))
			return
		}
	}
}

// flag renders a two-state label when the key is present at all.
func (b *builder) flag(icon, label string, v lookup.Value, yes, no string) {
	if !v.Present() {
		return
	}
	state := no
	if v.Truthy() {
		state = yes
	}
	b.add(Plain(icon+" "), Bold(label+":"), Plain(" "+state))
}

func (b *builder) extras(p lookup.Payload, keys []string) {
	for _, key := range keys {
		b.field("ℹ️", extraLabel(key), p.Field(key))
	}
}

// fallback explains an empty result; keys, when given, are listed for debugging.
func (b *builder) fallback(keys []string) {
	if b.details > 0 {
		return
	}
	b.r.Blank()
	b.r.Add(Plain("ℹ️ "), Bold("No detailed information available for this number."))
	b.r.Add(Plain("The number might be invalid, not in database, or in private registry."))
	if len(keys) > 0 {
		b.r.Blank()
		b.r.Add(Plain("🔍 "), Bold("Available fields:"), Plain(" "+strings.Join(keys, ", ")))
	}
}

func (b *builder) finish(providerName string) Report {
	b.r.Blank()
	b.r.Add(Plain("---"))
	b.r.Add(Plain("⚠️ "), Italic("Information provided by "+providerName))
	return b.r
}

func extraLabel(key string) string {
	if label, ok := extraLabels[key]; ok {
		return label
	}
	return titleCase(key)
}

// titleCase turns "fixed_line" into "Fixed Line". Casers are not safe for
// concurrent use, so one is created per call.
func titleCase(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return cases.Title(language.English).String(s)
}

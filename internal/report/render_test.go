package report

import (
	"strings"
	"testing"

	"github.com/garyellow/phoneinfo-bot/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provider = "Phone Lookup API"

func termResult(m map[string]any) lookup.Result {
	return lookup.Success(lookup.NewTermPayload(m))
}

func pathResult(m map[string]any) lookup.Result {
	return lookup.Success(lookup.NewPathPayload(m))
}

func TestRender_TermScenario(t *testing.T) {
	res := termResult(map[string]any{
		"carrier": "Acme Mobile",
		"type":    "mobile",
		"valid":   true,
	})

	text := Render(res, "+14155552671", provider).String()

	assert.Contains(t, text, "Carrier: Acme Mobile")
	assert.Contains(t, text, "Type: Mobile")
	assert.Contains(t, text, "Validity: ✅ Valid")
	assert.Contains(t, text, "Information provided by "+provider)
	assert.NotContains(t, text, "No detailed information")
}

func TestRender_EchoIsSecondLine(t *testing.T) {
	results := []lookup.Result{
		termResult(map[string]any{"carrier": "Acme"}),
		termResult(map[string]any{"unknown": "x"}),
		pathResult(map[string]any{"phone": "+1"}),
		pathResult(map[string]any{"country": "GB"}),
	}
	for i, res := range results {
		rep := Render(res, "+1 (415) 555-2671", provider)
		require.GreaterOrEqual(t, len(rep.Lines), 2, "result %d", i)
		assert.Contains(t, rep.Lines[1].Text(StylePlain), "+1 (415) 555-2671", "result %d", i)
	}
}

func TestRender_FirstMatchWins(t *testing.T) {
	text := Render(termResult(map[string]any{
		"carrier":  "Primary",
		"operator": "Secondary",
		"type":     "",
		"lineType": "landline",
		"location": nil,
		"region":   "California",
	}), "12345", provider).String()

	assert.Contains(t, text, "Carrier: Primary")
	assert.NotContains(t, text, "Secondary")
	assert.Contains(t, text, "Line Type: Landline")
	assert.Contains(t, text, "Region: California")
	assert.NotContains(t, text, "Location:")
}

func TestRender_Validity(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
		absent  bool
	}{
		{"true", map[string]any{"valid": true}, "Validity: ✅ Valid", false},
		{"false", map[string]any{"valid": false}, "Validity: ❌ Invalid", false},
		{"null", map[string]any{"valid": nil}, "Validity: ❌ Invalid", false},
		{"absent", map[string]any{"carrier": "Acme"}, "Validity", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Render(termResult(tt.payload), "12345", provider).String()
			if tt.absent {
				assert.NotContains(t, text, tt.want)
			} else {
				assert.Contains(t, text, tt.want)
			}
		})
	}
}

func TestRender_TermCountryFlat(t *testing.T) {
	text := Render(termResult(map[string]any{
		"country":       "United States",
		"countryCode":   "US",
		"countryPrefix": "+1",
	}), "12345", provider).String()

	assert.Contains(t, text, "Country: United States")
	assert.Contains(t, text, "Country Code: US")
	assert.Contains(t, text, "Calling Code: +1")
}

func TestRender_PathCountryNested(t *testing.T) {
	text := Render(pathResult(map[string]any{
		"phone":     "+442072193000",
		"country":   map[string]any{"name": "United Kingdom", "code": "GB", "prefix": "+44"},
		"line_type": "fixed_line",
		"timezone":  "Europe/London",
	}), "+442072193000", "Phone Info API").String()

	assert.Contains(t, text, "Number: +442072193000")
	assert.Contains(t, text, "Country: United Kingdom")
	assert.Contains(t, text, "Country Code: GB")
	assert.Contains(t, text, "Calling Code: +44")
	assert.Contains(t, text, "Line Type: Fixed Line")
	assert.Contains(t, text, "Timezone: Europe/London")
	assert.Contains(t, text, "Information provided by Phone Info API")
}

func TestRender_Extras(t *testing.T) {
	text := Render(termResult(map[string]any{
		"ported":    false,
		"cnam":      "JOHN DOE",
		"spamScore": "12",
		"status":    "",
	}), "12345", provider).String()

	assert.Contains(t, text, "Ported: ❌ No")
	assert.Contains(t, text, "CNAM: JOHN DOE")
	assert.Contains(t, text, "Spam Score: 12")
	assert.NotContains(t, text, "Status:")
}

func TestRender_FallbackListsFieldsForTermOnly(t *testing.T) {
	term := Render(termResult(map[string]any{
		"success": true,
		"zeta":    "",
		"alpha":   nil,
	}), "12345", provider).String()

	assert.Contains(t, term, "No detailed information available for this number.")
	assert.Contains(t, term, "Available fields: alpha, zeta")
	assert.NotContains(t, term, "success")

	path := Render(pathResult(map[string]any{"zeta": ""}), "12345", provider).String()
	assert.Contains(t, path, "No detailed information available for this number.")
	assert.NotContains(t, path, "Available fields")
}

func TestRender_Failures(t *testing.T) {
	tests := []struct {
		name     string
		failure  *lookup.Failure
		contains []string
		excludes []string
	}{
		{
			name:     "http 500",
			failure:  &lookup.Failure{Kind: lookup.KindHTTP, StatusCode: 500, Message: "API returned status code: 500"},
			contains: []string{"500", "+14155552671"},
		},
		{
			name:     "timeout",
			failure:  &lookup.Failure{Kind: lookup.KindTimeout, Message: "slow"},
			contains: []string{"timeout"},
			excludes: []string{"Network error"},
		},
		{
			name:     "network",
			failure:  &lookup.Failure{Kind: lookup.KindNetwork, Message: "request failed: connection refused"},
			contains: []string{"Network error", "connection refused"},
			excludes: []string{"timeout"},
		},
		{
			name:     "unexpected",
			failure:  &lookup.Failure{Kind: lookup.KindUnexpected, Message: "invalid response"},
			contains: []string{"Unexpected error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Render(lookup.Fail(tt.failure), "+14155552671", provider)
			require.Len(t, rep.Lines, 1)
			text := rep.String()
			assert.Contains(t, text, "+14155552671")
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestRender_ProviderErrorKey(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"with message", map[string]any{"error": "Invalid key", "success": false}, "❌ Error fetching information for 12345: Invalid key"},
		{"empty message", map[string]any{"error": "", "success": false}, "❌ Error fetching information for 12345: "},
		{"null message", map[string]any{"error": nil, "carrier": "Acme"}, "❌ Error fetching information for 12345: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Render(termResult(tt.data), "12345", provider)
			require.Len(t, rep.Lines, 1)
			assert.Equal(t, tt.want, rep.String())
		})
	}
}

func TestRender_EmptyResults(t *testing.T) {
	results := map[string]lookup.Result{
		"zero result":   {},
		"nil payload":   lookup.Success(nil),
		"empty object":  termResult(map[string]any{}),
		"nil map":       pathResult(nil),
		"nil failure":   lookup.Fail(nil),
	}
	for name, res := range results {
		t.Run(name, func(t *testing.T) {
			var rep Report
			assert.NotPanics(t, func() { rep = Render(res, "12345", provider) })
			assert.NotEmpty(t, rep.Lines)
		})
	}
}

func TestRender_UnexpectedTypes(t *testing.T) {
	res := termResult(map[string]any{
		"carrier":  map[string]any{"id": 7.0},
		"type":     []any{"mobile", 3.0},
		"location": map[string]any{"name": "Paris"},
		"valid":    "yes",
		"number":   []any{},
		"ported":   map[string]any{},
	})

	var text string
	require.NotPanics(t, func() { text = Render(res, "12345", provider).String() })
	assert.NotContains(t, text, "Carrier")
	assert.Contains(t, text, "Type: Mobile, 3")
	assert.Contains(t, text, "Location: Paris")
	assert.Contains(t, text, "Validity: ✅ Valid")
	assert.Contains(t, text, "Ported: ❌ No")
}

func TestRender_MarkdownEscapesValues(t *testing.T) {
	rep := Render(termResult(map[string]any{"carrier": "Acme_*Mobile*"}), "+1`234", provider)
	md := rep.Text(StyleMarkdown)

	assert.Contains(t, md, `Acme\_\*Mobile\*`)
	assert.Contains(t, md, "`+1'234`")
	assert.Contains(t, md, "*Carrier:*")
	assert.True(t, strings.HasPrefix(md, "📱 *Phone Number Information*"))
}

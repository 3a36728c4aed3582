package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadKeepsUndeclaredKeys(t *testing.T) {
	raw := `{"name":"Jane","email":"jane@x.com","company":"Acme","goals":"grow","utm_source":"gbp","consent":true,"Phone":"555"}`

	var lead Lead
	require.NoError(t, json.Unmarshal([]byte(raw), &lead))
	assert.Equal(t, "Jane", lead.Name)
	assert.Equal(t, "555", lead.Phone)
	assert.Equal(t, map[string]json.RawMessage{
		"utm_source": json.RawMessage(`"gbp"`),
		"consent":    json.RawMessage(`true`),
	}, lead.Extra)

	lead.Name = "Jane Doe"
	out, err := json.Marshal(lead)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "Jane Doe", got["name"])
	assert.Equal(t, "555", got["phone"])
	assert.Equal(t, "gbp", got["utm_source"])
	assert.Equal(t, true, got["consent"])
}

func TestLeadDeclaredFieldsWinOverExtra(t *testing.T) {
	lead := Lead{Name: "Jane", Extra: map[string]json.RawMessage{"name": json.RawMessage(`"spoofed"`)}}
	out, err := json.Marshal(lead)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane","email":"","company":"","goals":""}`, string(out))
}

func TestLeadWithoutExtraMarshalsPlain(t *testing.T) {
	out, err := json.Marshal(Lead{Name: "Jane", Email: "j@x.com", Company: "Acme", Goals: "grow"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane","email":"j@x.com","company":"Acme","goals":"grow"}`, string(out))
}

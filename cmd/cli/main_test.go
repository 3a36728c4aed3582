package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestImportAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	dump := `{
	  "harborform_tasks_v2": [{"id":"t1","title":"Audit GBP","client":"Lakeside","priority":"high","assignedTo":"nico","status":"pending","createdAt":"2024-01-05T10:00:00Z"}],
	  "harborform_billing_v2": "[{\"id\":\"b1\",\"title\":\"Audit\",\"client\":\"Lakeside\",\"duration\":2,\"isFixedRate\":false,\"date\":\"2024-01-05\",\"status\":\"pending\"}]"
	}`

	out := run(t, dump, "--db", db, "import")
	assert.Contains(t, out, "imported 1 records into harborform_tasks_v2")
	assert.Contains(t, out, "imported 1 records into harborform_billing_v2")

	out = run(t, "", "--db", db, "tasks", "list")
	assert.Contains(t, out, "Audit GBP")
	assert.Contains(t, out, "nico")

	out = run(t, "", "--db", db, "--hourly-rate", "80", "billing", "list")
	assert.Contains(t, out, "160.00")

	out = run(t, "", "--db", db, "invoices", "list", "--json")
	assert.Equal(t, "[]\n", out)

	out = run(t, "", "--db", db, "export")
	assert.Contains(t, out, `"harborform_invoices_v2": []`)
	assert.Contains(t, out, `"title": "Audit GBP"`)
}

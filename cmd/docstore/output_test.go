package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/docstore/v1/arango"
)

func TestSplitAssignment(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		value any
	}{
		{"age=30", "age", json.Number("30")},
		{"name=Ada", "name", "Ada"},
		{`name="Ada"`, "name", "Ada"},
		{"active=true", "active", true},
		{"deleted=null", "deleted", nil},
		{"tags=[1,2]", "tags", []any{json.Number("1"), json.Number("2")}},
		{"note=1 2", "note", "1 2"},
		{"empty=", "empty", ""},
		{"expr=a=b", "expr", "a=b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, value, err := splitAssignment(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}

	for _, bad := range []string{"novalue", "=x"} {
		_, _, err := splitAssignment(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseWhere(t *testing.T) {
	c, err := parseWhere([]string{"status=active", "address.city=Berlin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "address.city"}, c.Paths())

	c, err = parseWhere(nil)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = parseWhere([]string{"broken"})
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"min=18", "@coll=users"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"min": json.Number("18"), "@coll": "users"}, got)

	_, err = parseAssignments([]string{"a=1", "a=2"})
	assert.Error(t, err)
}

func TestReadDocument(t *testing.T) {
	rec, err := readDocument(nil, `{"name":"Ada","age":36}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, rec.Keys())

	rec, err = readDocument(bytes.NewBufferString(`{"from":"stdin"}`), "-")
	require.NoError(t, err)
	assert.True(t, rec.Has("from"))

	_, err = readDocument(nil, `[1,2]`)
	assert.Error(t, err)
}

func TestCountCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_db/shop/_api/cursor", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "users", body["bindVars"].(map[string]any)["@collection"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":[4],"hasMore":false}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--endpoint", srv.URL, "--database", "shop", "count", "users"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "4\n", out.String())
}

func TestPrintCursor(t *testing.T) {
	cur := arango.NewCursor(nil, &arango.RawResult{
		Records:  []json.RawMessage{json.RawMessage(`{"_id":"users/1","_key":"1","name":"Ada"}`)},
		Warnings: []arango.Warning{{Code: 1562, Message: "division by zero"}},
	})

	var out bytes.Buffer
	require.NoError(t, printCursor(t.Context(), &out, cur))
	assert.Equal(t, "{\"_id\":\"users/1\",\"_key\":\"1\",\"name\":\"Ada\"}\n# warning 1562: division by zero\n", out.String())
}

package main

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	withStdin(t, "")
	if err := runCLI([]string{"xell", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("fn main():\n  give 1\n;\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithParseError(t *testing.T) {
	diags := diagnosticsForSource("x = )\ny = 1\nz = ]\n")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	first := diags[0]
	if first["severity"] != 1 {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 0 || start["character"] != 4 {
		t.Fatalf("unexpected start %#v", start)
	}
	if first["message"] != `unexpected ")"` {
		t.Fatalf("unexpected message %#v", first["message"])
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems()
	if len(items) == 0 {
		t.Fatalf("expected completion items")
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	keyword := findCompletionItem(t, items, "bring")
	if keyword["detail"] != "keyword" || keyword["kind"] != 14 {
		t.Fatalf("unexpected keyword item %#v", keyword)
	}

	builtin := findCompletionItem(t, items, "gen_collect")
	if builtin["detail"] != "builtin" || builtin["kind"] != 3 {
		t.Fatalf("unexpected builtin item %#v", builtin)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	payload := mustMarshal(t, map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.xel",
			"text": "fn run(\n  give 1\n;\n",
		},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok || len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source, got %#v", paramsMap["diagnostics"])
	}
}

func TestHandleMessageHover(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	server.docs["file:///tmp/test.xel"] = "fn area(w, h = 1, ...rest): give w * h ;\nprint area(2)\n"

	cases := []struct {
		line, char int
		want       string
	}{
		{1, 1, "Xell builtin"},
		{1, 7, "fn area(w, h = ..., ...rest)"},
		{0, 0, "Xell keyword"},
	}
	for _, tc := range cases {
		payload := mustMarshal(t, map[string]any{
			"textDocument": map[string]any{"uri": "file:///tmp/test.xel"},
			"position":     map[string]any{"line": tc.line, "character": tc.char},
		})
		messages := server.handleMessage(lspInboundMessage{
			JSONRPC: "2.0",
			ID:      rawID("1"),
			Method:  "textDocument/hover",
			Params:  payload,
		})
		if len(messages) != 1 {
			t.Fatalf("expected one response, got %d", len(messages))
		}
		result, ok := messages[0].Result.(map[string]any)
		if !ok {
			t.Fatalf("unexpected hover result: %#v", messages[0].Result)
		}
		value := result["contents"].(map[string]any)["value"].(string)
		if !strings.Contains(value, tc.want) {
			t.Fatalf("hover at %d:%d: expected %q in %q", tc.line, tc.char, tc.want, value)
		}
	}
}

func TestServeRoundTrip(t *testing.T) {
	var in bytes.Buffer
	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"unknown/method"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		fmt.Fprintf(&in, "Content-Length: %d\r\n\r\n%s", len(msg), msg)
	}
	var out bytes.Buffer

	if err := newLSPServer(&in, &out).serve(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `"hoverProvider":true`) {
		t.Fatalf("missing initialize capabilities in %q", got)
	}
	if !strings.Contains(got, `"code":-32601`) {
		t.Fatalf("missing method-not-found error in %q", got)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "fn main():\n  natural_sort(xs)\n;\n"
	if word := wordAtPosition(source, 1, 4); word != "natural_sort" {
		t.Fatalf("expected natural_sort, got %q", word)
	}
	if word := wordAtPosition(source, 1, 17); word != "xs" {
		t.Fatalf("expected xs at the closing paren, got %q", word)
	}
	if word := wordAtPosition(source, 9, 0); word != "" {
		t.Fatalf("expected no word past the end, got %q", word)
	}
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return payload
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}


package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/xell-lang/xell/xell"
)

var (
	lspKeywords = sortedNames(xell.Keywords())
	lspBuiltins = sortedNames(standardBuiltins())
)

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// standardBuiltins lists the names every interpreter starts with.
func standardBuiltins() []string {
	interp, err := xell.New(xell.Config{CaptureOutput: true})
	if err != nil {
		return nil
	}
	defer interp.Close()
	return interp.Builtins()
}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	docs   map[string]string
}

func runLSP() error {
	server := newLSPServer(os.Stdin, os.Stdout)
	return server.serve()
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		docs:   make(map[string]string),
	}
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func reply(id *json.RawMessage, result any) lspOutboundMessage {
	return lspOutboundMessage{JSONRPC: "2.0", ID: id, Result: result}
}

func replyError(id *json.RawMessage, code int, message string) lspOutboundMessage {
	return lspOutboundMessage{JSONRPC: "2.0", ID: id, Error: &lspResponseError{Code: code, Message: message}}
}

// handleMessage answers one inbound message. Notifications (no ID) never
// get a response, only published diagnostics.
func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	var out lspOutboundMessage
	switch incoming.Method {
	case "initialized", "exit":
		return nil
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		return s.updateDocument(params.TextDocument.URI, params.TextDocument.Text)
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil || len(params.ContentChanges) == 0 {
			return nil
		}
		return s.updateDocument(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
	case "initialize":
		out = reply(incoming.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync":   1,
				"hoverProvider":      true,
				"completionProvider": map[string]any{"resolveProvider": false},
			},
			"serverInfo": map[string]any{"name": "xell-lsp"},
		})
	case "shutdown":
		out = reply(incoming.ID, nil)
	case "textDocument/completion":
		out = reply(incoming.ID, map[string]any{"isIncomplete": false, "items": completionItems()})
	case "textDocument/hover":
		out = s.hover(incoming)
	default:
		out = replyError(incoming.ID, -32601, "method not found")
	}
	if incoming.ID == nil {
		return nil
	}
	return []lspOutboundMessage{out}
}

func (s *lspServer) updateDocument(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(text),
		},
	}}
}

func (s *lspServer) hover(incoming lspInboundMessage) lspOutboundMessage {
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil {
		return replyError(incoming.ID, -32602, "invalid hover params")
	}
	source := s.docs[params.TextDocument.URI]
	word := wordAtPosition(source, params.Position.Line, params.Position.Character)
	if word == "" {
		return reply(incoming.ID, nil)
	}
	return reply(incoming.ID, map[string]any{
		"contents": map[string]any{"kind": "markdown", "value": hoverText(source, word)},
	})
}

func diagnosticsForSource(source string) []map[string]any {
	_, err := xell.Parse(source, "")
	if err == nil {
		return []map[string]any{}
	}

	var errs xell.ParseErrors
	if !errors.As(err, &errs) {
		return []map[string]any{newDiagnostic(0, 0, err.Error())}
	}
	out := make([]map[string]any, 0, len(errs))
	for _, perr := range errs {
		out = append(out, newDiagnostic(max(0, perr.Pos.Line-1), max(0, perr.Pos.Column-1), perr.Message))
	}
	return out
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "xell-lsp",
		"message":  message,
	}
}

func completionItems() []map[string]any {
	labels := make([]string, 0, len(lspKeywords)+len(lspBuiltins))
	labels = append(labels, lspKeywords...)
	labels = append(labels, lspBuiltins...)
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind := 3 // Function
		detail := "builtin"
		if isKeyword(label) {
			kind = 14 // Keyword
			detail = "keyword"
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func isKeyword(word string) bool {
	_, ok := sort.Find(len(lspKeywords), func(i int) int {
		return strings.Compare(word, lspKeywords[i])
	})
	return ok
}

func classifyWord(word string) string {
	if isKeyword(word) {
		return "keyword"
	}
	if _, ok := sort.Find(len(lspBuiltins), func(i int) int {
		return strings.Compare(word, lspBuiltins[i])
	}); ok {
		return "builtin"
	}
	return "symbol"
}

// hoverText describes word. Functions declared in source show their
// signature.
func hoverText(source, word string) string {
	if program, err := xell.Parse(source, ""); err == nil {
		var sig string
		xell.Inspect(program, func(n xell.Node) bool {
			if fn, ok := n.(*xell.FunctionStmt); ok && fn.Name == word && sig == "" {
				sig = functionSignature(fn)
			}
			return sig == ""
		})
		if sig != "" {
			return fmt.Sprintf("```xell\n%s\n```\n\nXell function (line %d)", sig, findLine(program, word))
		}
	}
	return fmt.Sprintf("`%s`\n\nXell %s", word, classifyWord(word))
}

func functionSignature(fn *xell.FunctionStmt) string {
	params := make([]string, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		if p.DefaultVal != nil {
			params = append(params, p.Name+" = ...")
		} else {
			params = append(params, p.Name)
		}
	}
	if fn.Variadic != "" {
		params = append(params, "..."+fn.Variadic)
	}
	prefix := "fn "
	if fn.IsAsync {
		prefix = "async fn "
	}
	return prefix + fn.Name + "(" + strings.Join(params, ", ") + ")"
}

func findLine(program *xell.Program, name string) int {
	line := 0
	xell.Inspect(program, func(n xell.Node) bool {
		if fn, ok := n.(*xell.FunctionStmt); ok && fn.Name == name && line == 0 {
			line = fn.Pos().Line
		}
		return line == 0
	})
	return line
}

func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	character = max(0, min(character, len(runes)))

	cursor := character
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}

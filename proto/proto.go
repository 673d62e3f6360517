// Package proto is a minimal stand-in for the "pre-existing external
// parser" spec.md assumes (RFC 3501 line-level byte parsing is explicitly
// out of scope for the core). It recognizes exactly the response shapes
// named in spec.md §3 — Continue, Done, Data, the five MailboxData
// variants, Fetch, Expunge, Capabilities and IDs — and is deliberately not
// a general IMAP grammar: literals, deeply nested parenthesized lists, and
// quoted-string escaping are not handled. It exists so this module has
// something to build response.Response fixtures from, both in tests and in
// session.WireSession.
package proto

import (
	"strconv"
	"strings"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/response"
)

// Parse turns one CRLF-terminated (or bare) server line into a
// response.Response. The input need not include the trailing CRLF.
func Parse(line []byte) (response.Response, error) {
	text := strings.TrimRight(string(line), "\r\n")
	parsed, err := parseLine(text)
	if err != nil {
		return response.Response{}, err
	}
	return response.New(line, parsed), nil
}

func parseLine(text string) (response.Parsed, error) {
	if strings.HasPrefix(text, "+") {
		return response.Parsed{Kind: response.KindContinue}, nil
	}

	tag, rest, ok := splitFirstWord(text)
	if !ok {
		return response.Parsed{}, &SyntaxError{Line: text, Reason: "empty response line"}
	}

	if tag == "*" {
		return parseUntagged(text, rest)
	}
	return parseTagged(text, tag, rest)
}

func parseTagged(line, tag, rest string) (response.Parsed, error) {
	statusWord, remainder, ok := splitFirstWord(rest)
	if !ok {
		return response.Parsed{}, &SyntaxError{Line: line, Reason: "tagged line missing status"}
	}
	status, ok := parseStatus(statusWord)
	if !ok {
		return response.Parsed{}, &SyntaxError{Line: line, Reason: "unrecognized status " + statusWord}
	}
	code, info := parseCodeAndInfo(remainder)
	return response.Parsed{
		Kind:        response.KindDone,
		Tag:         tag,
		Status:      status,
		Code:        code,
		Information: info,
	}, nil
}

func parseUntagged(line, rest string) (response.Parsed, error) {
	first, remainder, ok := splitFirstWord(rest)
	if !ok {
		return response.Parsed{}, &SyntaxError{Line: line, Reason: "untagged line missing keyword"}
	}
	upper := strings.ToUpper(first)

	if status, ok := parseStatus(upper); ok {
		code, info := parseCodeAndInfo(remainder)
		return response.Parsed{Kind: response.KindData, Status: status, Code: code, Information: info}, nil
	}

	switch upper {
	case "CAPABILITY":
		return response.Parsed{Kind: response.KindCapabilities, CapabilityTokens: splitTokens(remainder)}, nil

	case "LIST", "LSUB":
		toks := splitTokens(remainder)
		if len(toks) != 3 {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: "malformed LIST response"}
		}
		delim := toks[1]
		if strings.EqualFold(delim, "NIL") {
			delim = ""
		}
		return response.Parsed{
			Kind:          response.KindMailboxList,
			ListFlags:     flagWords(toks[0]),
			ListDelimiter: delim,
			ListName:      toks[2],
		}, nil

	case "FLAGS":
		toks := splitTokens(remainder)
		if len(toks) != 1 {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: "malformed FLAGS response"}
		}
		return response.Parsed{Kind: response.KindMailboxFlags, Flags: flagWords(toks[0])}, nil

	case "SEARCH":
		ids, err := parseUint32List(strings.Fields(remainder))
		if err != nil {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: err.Error()}
		}
		return response.Parsed{Kind: response.KindIDs, IDList: ids}, nil

	case "STATUS":
		toks := splitTokens(remainder)
		if len(toks) != 2 {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: "malformed STATUS response"}
		}
		attrs, err := parseStatusAttrs(toks[1])
		if err != nil {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: err.Error()}
		}
		return response.Parsed{Kind: response.KindMailboxStatus, StatusMailbox: toks[0], StatusAttrs: attrs}, nil
	}

	// Numeric-prefixed shapes: "<n> EXISTS|RECENT|EXPUNGE|FETCH ..."
	if num, err := strconv.ParseUint(first, 10, 32); err == nil {
		kw, kwRest, ok := splitFirstWord(remainder)
		if !ok {
			return response.Parsed{}, &SyntaxError{Line: line, Reason: "missing keyword after sequence number"}
		}
		switch strings.ToUpper(kw) {
		case "EXISTS":
			return response.Parsed{Kind: response.KindMailboxExists, Num: uint32(num)}, nil
		case "RECENT":
			return response.Parsed{Kind: response.KindMailboxRecent, Num: uint32(num)}, nil
		case "EXPUNGE":
			return response.Parsed{Kind: response.KindExpunge, Num: uint32(num)}, nil
		case "FETCH":
			toks := splitTokens(kwRest)
			if len(toks) != 1 {
				return response.Parsed{}, &SyntaxError{Line: line, Reason: "malformed FETCH response"}
			}
			attrs, err := parseFetchAttrs(toks[0])
			if err != nil {
				return response.Parsed{}, &SyntaxError{Line: line, Reason: err.Error()}
			}
			return response.Parsed{Kind: response.KindFetch, Num: uint32(num), FetchAttrs: attrs}, nil
		}
	}

	return response.Parsed{}, &SyntaxError{Line: line, Reason: "unrecognized response shape"}
}

func parseStatus(word string) (response.Status, bool) {
	switch response.Status(strings.ToUpper(word)) {
	case response.StatusOK:
		return response.StatusOK, true
	case response.StatusNo:
		return response.StatusNo, true
	case response.StatusBad:
		return response.StatusBad, true
	case response.StatusPreAuth:
		return response.StatusPreAuth, true
	case response.StatusBye:
		return response.StatusBye, true
	}
	return "", false
}

func parseCodeAndInfo(remainder string) (*response.Code, string) {
	remainder = strings.TrimSpace(remainder)
	if !strings.HasPrefix(remainder, "[") {
		return nil, remainder
	}
	end := strings.Index(remainder, "]")
	if end < 0 {
		return nil, remainder
	}
	codeBody := remainder[1:end]
	info := strings.TrimSpace(remainder[end+1:])

	toks := splitTokens(codeBody)
	if len(toks) == 0 {
		return nil, info
	}
	code := &response.Code{Name: strings.ToUpper(toks[0])}
	if len(toks) > 1 {
		switch code.Name {
		case "UIDVALIDITY", "UIDNEXT", "UNSEEN":
			if n, err := strconv.ParseUint(toks[1], 10, 32); err == nil {
				code.Num = uint32(n)
			}
		case "PERMANENTFLAGS":
			code.Flags = flagWords(toks[1])
		}
	}
	return code, info
}

func parseStatusAttrs(s string) ([]response.StatusAttr, error) {
	toks := strings.Fields(s)
	if len(toks)%2 != 0 {
		return nil, &SyntaxError{Line: s, Reason: "STATUS attribute list is not name/value pairs"}
	}
	attrs := make([]response.StatusAttr, 0, len(toks)/2)
	for i := 0; i < len(toks); i += 2 {
		n, err := strconv.ParseUint(toks[i+1], 10, 32)
		if err != nil {
			return nil, err
		}
		var kind response.StatusAttrKind
		switch strings.ToUpper(toks[i]) {
		case "MESSAGES":
			kind = response.StatusAttrMessages
		case "UIDNEXT":
			kind = response.StatusAttrUIDNext
		case "UIDVALIDITY":
			kind = response.StatusAttrUIDValidity
		case "UNSEEN":
			kind = response.StatusAttrUnseen
		case "RECENT":
			kind = response.StatusAttrRecent
		default:
			continue
		}
		attrs = append(attrs, response.StatusAttr{Kind: kind, Value: uint32(n)})
	}
	return attrs, nil
}

func parseFetchAttrs(s string) ([]response.FetchAttr, error) {
	toks := splitTokens(s)
	if len(toks)%2 != 0 {
		return nil, &SyntaxError{Line: s, Reason: "FETCH attribute list is not name/value pairs"}
	}
	attrs := make([]response.FetchAttr, 0, len(toks)/2)
	for i := 0; i < len(toks); i += 2 {
		name := strings.ToUpper(toks[i])
		attr := response.FetchAttr{Name: name, Raw: toks[i+1]}
		switch name {
		case "UID":
			if n, err := strconv.ParseUint(toks[i+1], 10, 32); err == nil {
				attr.UID = uint32(n)
			}
		case "FLAGS":
			attr.Flags = flagWords(toks[i+1])
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func parseUint32List(words []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(words))
	for _, w := range words {
		n, err := strconv.ParseUint(w, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint32(n))
	}
	return ids, nil
}

func flagWords(s string) []imap.Flag {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	flags := make([]imap.Flag, 0, len(fields))
	for _, f := range fields {
		flags = append(flags, imap.Flag(f))
	}
	return flags
}

// splitFirstWord splits s on the first run of whitespace, returning the
// first word, the remainder (unparsed), and whether a word was found.
func splitFirstWord(s string) (word, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return "", "", false
	}
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, "", true
	}
	return s[:i], s[i+1:], true
}

// splitTokens splits s into top-level space-separated tokens, treating a
// "(...)" group or a "\"...\"" quoted string as a single token whose
// content is the part inside the delimiters (parens/quotes stripped).
func splitTokens(s string) []string {
	var toks []string
	i, n := 0, len(s)
	for i < n {
		for i < n && s[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		switch s[i] {
		case '(':
			depth := 1
			j := i + 1
			for j < n && depth > 0 {
				switch s[j] {
				case '(':
					depth++
				case ')':
					depth--
				}
				j++
			}
			end := j - 1
			if end < i+1 {
				end = i + 1
			}
			toks = append(toks, s[i+1:end])
			i = j
		case '"':
			j := i + 1
			for j < n && s[j] != '"' {
				j++
			}
			toks = append(toks, s[i+1:j])
			if j < n {
				j++
			}
			i = j
		default:
			j := i
			for j < n && s[j] != ' ' {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks
}

// SyntaxError is returned when a line doesn't match any shape this minimal
// parser recognizes.
type SyntaxError struct {
	Line   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return "proto: " + e.Reason + ": " + e.Line
}

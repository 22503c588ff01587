package util

import (
	"strings"

	"github.com/tidwall/gjson"
)

// RecoveryStrategy tries to pull a JSON object out of free-form model output.
type RecoveryStrategy func(raw string) (gjson.Result, bool)

// DefaultRecovery is the order in which model replies are parsed.
var DefaultRecovery = []RecoveryStrategy{ParseDirect, ParseTaggedFence, ParseAnyFence}

const fence = "```"

// RecoverJSON returns the result of the first strategy that succeeds.
func RecoverJSON(raw string, strategies ...RecoveryStrategy) (gjson.Result, bool) {
	if len(strategies) == 0 {
		strategies = DefaultRecovery
	}
	for _, strategy := range strategies {
		if doc, ok := strategy(raw); ok {
			return doc, true
		}
	}
	return gjson.Result{}, false
}

// ParseDirect accepts the whole reply when it is a JSON object.
func ParseDirect(raw string) (gjson.Result, bool) {
	return parseObject(raw)
}

// ParseTaggedFence parses the body of the first ```json block.
func ParseTaggedFence(raw string) (gjson.Result, bool) {
	body, ok := fencedBody(raw, fence+"json")
	if !ok {
		return gjson.Result{}, false
	}
	return parseObject(body)
}

// ParseAnyFence parses the body of the first ``` block, whatever its language tag.
func ParseAnyFence(raw string) (gjson.Result, bool) {
	body, ok := fencedBody(raw, fence)
	if !ok {
		return gjson.Result{}, false
	}
	if nl := strings.IndexByte(body, '\n'); nl > 0 && isInfoString(body[:nl]) {
		body = body[nl+1:]
	}
	return parseObject(body)
}

// fencedBody returns the text after the first opener up to the next fence, or
// to the end of the input when the block is never closed.
func fencedBody(raw, opener string) (string, bool) {
	start := strings.Index(raw, opener)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(opener):]
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

func isInfoString(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.ContainsAny(line, " \t{}[]\"")
}

func parseObject(s string) (gjson.Result, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(s)
	if !doc.IsObject() {
		return gjson.Result{}, false
	}
	return doc, true
}

// Package control interprets the line-oriented command stream read from
// stdin and the control socket.
//
//	<output> status <text>
//	<output> show | hide | toggle-visibility
//	<output> set-top | set-bottom | toggle-location
//
// <output> is "all", "selected" or an output name.
package control

import "strings"

// Command is one parsed control line.
type Command struct {
	Target string
	Name   string
	// Arg is the rest of the line after the single space that ends Name.
	Arg string
}

// nextWord skips leading spaces and returns the word at the start of s and
// what follows its terminating space. last is set when the word ends the
// line.
func nextWord(s string) (word, rest string, last bool) {
	s = strings.TrimLeft(s, " ")
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, "", true
	}
	return s[:i], s[i+1:], false
}

// ParseLine splits a line into target, command and argument. Lines with
// fewer than two words are rejected.
func ParseLine(line string) (Command, bool) {
	target, rest, last := nextWord(line)
	if last {
		return Command{}, false
	}
	name, arg, _ := nextWord(rest)
	return Command{Target: target, Name: name, Arg: arg}, true
}

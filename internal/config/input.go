package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// InputConfig configures CSV decoding.
type InputConfig struct {
	Encoding  string `yaml:"encoding"`  // utf-8, utf-8-sig, windows-1252, latin-1
	Delimiter string `yaml:"delimiter"` // single character
}

// ValidEncodings lists the accepted input encodings.
var ValidEncodings = []string{"utf-8", "utf-8-sig", "windows-1252", "latin-1"}

// Validate checks encoding and delimiter.
func (c *InputConfig) Validate() error {
	if !contains(ValidEncodings, strings.ToLower(c.Encoding)) {
		return fmt.Errorf("invalid input.encoding: %s (valid: %v)", c.Encoding, ValidEncodings)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Delimiter)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune.
func (c *InputConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

package domain

import (
	"errors"
	"testing"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input    string
		expected Operation
	}{
		{input: "reverse", expected: Reverse},
		{input: "REVERSE", expected: Reverse},
		{input: "upper", expected: ToUpper},
		{input: "to-upper", expected: ToUpper},
		{input: " toUpper ", expected: ToUpper},
		{input: "remove-spaces", expected: RemoveSpaces},
		{input: "removeSpaces", expected: RemoveSpaces},
		{input: "nospace", expected: RemoveSpaces},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOperation(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestParseOperationUnknown(t *testing.T) {
	_, err := ParseOperation("lower")
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestParseOperations(t *testing.T) {
	ops, err := ParseOperations("upper,reverse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 || ops[0] != ToUpper || ops[1] != Reverse {
		t.Errorf("unexpected operations: %v", ops)
	}

	empty, err := ParseOperations("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no operations, got %v", empty)
	}

	if _, err := ParseOperations("upper,shout"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestOperationStringRoundTrip(t *testing.T) {
	for _, op := range []Operation{Reverse, ToUpper, RemoveSpaces} {
		parsed, err := ParseOperation(op.String())
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", op, err)
		}
		if parsed != op {
			t.Errorf("expected %v, got %v", op, parsed)
		}
	}
}

func TestParsePolicies(t *testing.T) {
	if u, err := ParseReverseUnit("graphemes"); err != nil || u != Graphemes {
		t.Errorf("expected graphemes, got %v (%v)", u, err)
	}
	if u, err := ParseReverseUnit(""); err != nil || u != Runes {
		t.Errorf("expected default runes, got %v (%v)", u, err)
	}
	if m, err := ParseCaseMapping("full"); err != nil || m != Full {
		t.Errorf("expected full, got %v (%v)", m, err)
	}
	if c, err := ParseSpaceClass("unicode-whitespace"); err != nil || c != UnicodeWhitespace {
		t.Errorf("expected unicode-whitespace, got %v (%v)", c, err)
	}

	if _, err := ParseReverseUnit("words"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
	if _, err := ParseCaseMapping("turkish"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
	if _, err := ParseSpaceClass("tabs"); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

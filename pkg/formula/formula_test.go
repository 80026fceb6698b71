package formula

import (
	"errors"
	"testing"
)

func refs(values ...float64) Resolver {
	return func(i int) (float64, error) {
		if i < 0 || i >= len(values) {
			return 0, errors.New("index out of range")
		}
		return values[i], nil
	}
}

func TestEval_Arithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"1+2", 3},
		{"2*3+4", 10},
		{"2*(3+4)", 14},
		{"10/4", 2.5},
		{"10%3", 1},
		{"-5+3", -2},
	}
	for _, c := range cases {
		got, err := Eval(c.expr, refs())
		if err != nil {
			t.Fatalf("Eval(%q) unexpected error: %v", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Eval(%q) = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestEval_InputReference(t *testing.T) {
	got, err := Eval("#0*#1", refs(3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Errorf("got %v, want 12", got)
	}
}

func TestEval_RejectsGarbage(t *testing.T) {
	for _, expr := range []string{"1+", "(1+2", "import os", "1 2 3", "1/0", "#"} {
		_, err := Eval(expr, refs())
		if err == nil {
			t.Errorf("Eval(%q) expected error, got nil", expr)
			continue
		}
		var bad *BadFormulaError
		if !errors.As(err, &bad) {
			t.Errorf("Eval(%q) error is not *BadFormulaError: %v", expr, err)
		}
	}
}

func TestEval_MissingResolver(t *testing.T) {
	_, err := Eval("#0", nil)
	if err == nil {
		t.Fatal("expected error referencing input without a resolver")
	}
}

func TestEval_DivisionByZeroIsBadFormula(t *testing.T) {
	_, err := Eval("5/0", refs())
	var bad *BadFormulaError
	if !errors.As(err, &bad) {
		t.Fatalf("expected *BadFormulaError, got %v", err)
	}
}

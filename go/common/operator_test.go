// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/json"
	"testing"

	"pgregory.net/rand"
)

func TestOperator_Compare(t *testing.T) {
	small, large := UintFromUint64(1), UintFromUint64(2)
	tests := map[Operator]struct {
		less, equal, greater bool
	}{
		Eq:  {false, true, false},
		Neq: {true, false, true},
		Gt:  {false, false, true},
		Ge:  {false, true, true},
		Lt:  {true, false, false},
		Le:  {true, true, false},
	}
	for op, test := range tests {
		t.Run(op.String(), func(t *testing.T) {
			if want, got := test.less, op.Compare(small, large); want != got {
				t.Errorf("1 %v 2: wanted %t, got %t", op.Symbol(), want, got)
			}
			if want, got := test.equal, op.Compare(small, small); want != got {
				t.Errorf("1 %v 1: wanted %t, got %t", op.Symbol(), want, got)
			}
			if want, got := test.greater, op.Compare(large, small); want != got {
				t.Errorf("2 %v 1: wanted %t, got %t", op.Symbol(), want, got)
			}
		})
	}
}

func TestOperator_ComparesHashesAsBigEndianIntegers(t *testing.T) {
	var high, low [32]byte
	high[0] = 1
	low[31] = 0xff
	if !Gt.Compare(Hash(high), Hash(low)) {
		t.Error("most significant byte should come first")
	}
	if !Lt.Compare(Hash(low), UintFromUint64(256)) {
		t.Error("hashes and integers should be comparable")
	}
}

func TestOperator_TagsAreStable(t *testing.T) {
	want := []Operator{Eq, Neq, Gt, Ge, Lt, Le}
	for i, op := range want {
		if byte(op) != byte(i) {
			t.Errorf("tag of %v should be %d, got %d", op, i, op)
		}
	}
}

func TestOperator_ParseNamesAndSymbols(t *testing.T) {
	for op := Operator(0); op < numOperators; op++ {
		for _, text := range []string{op.String(), op.Symbol()} {
			got, err := ParseOperator(text)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", text, err)
			}
			if op != got {
				t.Errorf("unexpected operator for %q, wanted %v, got %v", text, op, got)
			}
		}
	}
	if _, err := ParseOperator("=<"); err == nil {
		t.Error("expected unknown operator to be rejected")
	}
}

func TestOperator_JSON(t *testing.T) {
	encoded, err := json.Marshal([]Operator{Eq, Le})
	if err != nil {
		t.Fatal(err)
	}
	if want, got := `["Eq","Le"]`, string(encoded); want != got {
		t.Errorf("unexpected encoding, wanted %s, got %s", want, got)
	}
	var ops []Operator
	if err := json.Unmarshal([]byte(`["Neq","Gt"]`), &ops); err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 || ops[0] != Neq || ops[1] != Gt {
		t.Errorf("unexpected decoding: %v", ops)
	}
	if _, err := json.Marshal(Operator(17)); err == nil {
		t.Error("expected invalid operator to fail encoding")
	}
}

func TestArithmeticOperator_Apply(t *testing.T) {
	tests := map[string]struct {
		op   ArithmeticOperator
		a, b U256
		want U256
	}{
		"add":          {Add, NewU256(3), NewU256(4), NewU256(7)},
		"add overflow": {Add, MaxU256(), NewU256(2), NewU256(1)},
		"sub":          {Sub, NewU256(10), NewU256(4), NewU256(6)},
		"sub wraps":    {Sub, NewU256(5), NewU256(10), MaxU256().Sub(NewU256(4))},
		"mul":          {Mul, NewU256(6), NewU256(7), NewU256(42)},
		"div":          {Div, NewU256(42), NewU256(5), NewU256(8)},
		"div by zero":  {Div, NewU256(42), NewU256(), NewU256()},
		"mod":          {Mod, NewU256(42), NewU256(5), NewU256(2)},
		"mod by zero":  {Mod, NewU256(42), NewU256(), NewU256()},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.op.Apply(test.a, test.b); test.want.Ne(got) {
				t.Errorf("%v %v %v: wanted %v, got %v", test.a, test.op.Symbol(), test.b, test.want, got)
			}
		})
	}
}

func TestArithmeticOperator_AddAndSubAreInverse(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 1000; i++ {
		a, b := RandU256(rnd), RandU256(rnd)
		if got := Sub.Apply(Add.Apply(a, b), b); a.Ne(got) {
			t.Fatalf("(%v + %v) - %v = %v", a, b, b, got)
		}
	}
}

func TestArithmeticOperator_ParseAndJSON(t *testing.T) {
	for op := ArithmeticOperator(0); op < numArithmeticOperators; op++ {
		got, err := ParseArithmeticOperator(op.String())
		if err != nil || got != op {
			t.Errorf("failed to parse %v: %v, %v", op, got, err)
		}
		got, err = ParseArithmeticOperator(op.Symbol())
		if err != nil || got != op {
			t.Errorf("failed to parse %v: %v, %v", op.Symbol(), got, err)
		}
	}
	var op ArithmeticOperator
	if err := json.Unmarshal([]byte(`"Mod"`), &op); err != nil || op != Mod {
		t.Errorf("failed to decode Mod: %v, %v", op, err)
	}
	if err := json.Unmarshal([]byte(`"Pow"`), &op); err == nil {
		t.Error("expected unknown operator to be rejected")
	}
}

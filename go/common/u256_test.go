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
	"bytes"
	"math/big"
	"testing"

	"pgregory.net/rand"
)

func TestNewU256FromBytes_WithLessThan32Bytes(t *testing.T) {
	x := NewU256FromBytes([]byte{1, 2, 3, 4}...)
	xBytes := x.Bytes32be()
	if !bytes.Equal(xBytes[:], []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4}) {
		t.Fail()
	}
}

func TestNewU256FromBytes_PanicsWithMoreThan32Bytes(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fail()
		}
	}()
	_ = NewU256FromBytes(make([]byte, 33)...)
}

func TestU256IsZero(t *testing.T) {
	zero := NewU256()
	if !zero.IsZero() {
		t.Fail()
	}
	one := NewU256(1)
	if one.IsZero() {
		t.Fail()
	}
}

func TestU256Bytes32be(t *testing.T) {
	x := NewU256(1, 2, 3, 4)
	xBytes := x.Bytes32be()
	if !bytes.Equal(xBytes[:], []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 4}) {
		t.Fail()
	}
}

func TestU256Bytes32le(t *testing.T) {
	x := NewU256(1, 2, 3, 4)
	xBytes := x.Bytes32le()
	if !bytes.Equal(xBytes[:], []byte{4, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Fail()
	}
}

func TestU256Bytes32le_IsReverseOfBigEndian(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		x := RandU256(rnd)
		be, le := x.Bytes32be(), x.Bytes32le()
		for k := 0; k < 32; k++ {
			if want, got := be[31-k], le[k]; want != got {
				t.Fatalf("byte %d of %v: want %d, got %d", k, x, want, got)
			}
		}
	}
}

func TestU256Comparisons(t *testing.T) {
	a := NewU256(1, 2, 3, 4)
	b := NewU256(0, 0, 0, 4)
	if !a.Eq(a) || a.Eq(b) {
		t.Error("Eq broken")
	}
	if a.Ne(a) || !a.Ne(b) {
		t.Error("Ne broken")
	}
	if a.Lt(a) || a.Lt(b) || !b.Lt(a) {
		t.Error("Lt broken")
	}
	if a.Gt(a) || !a.Gt(b) || b.Gt(a) {
		t.Error("Gt broken")
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Error("Cmp broken")
	}
}

func TestU256Add(t *testing.T) {
	a := NewU256(17)
	b := NewU256(13)
	if a.Add(b).Ne(NewU256(17 + 13)) {
		t.Fail()
	}
	if MaxU256().Add(NewU256(1)).Ne(NewU256(0)) {
		t.Fail()
	}
}

func TestU256Sub(t *testing.T) {
	a := NewU256(17)
	b := NewU256(13)
	if a.Sub(b).Ne(NewU256(17 - 13)) {
		t.Fail()
	}
	zero := NewU256(0)
	if zero.Sub(NewU256(1)).Ne(MaxU256()) {
		t.Fail()
	}
	// 5 - 10 wraps to 2^256 - 5
	if want, got := MaxU256().Sub(NewU256(4)), NewU256(5).Sub(NewU256(10)); want.Ne(got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestU256Mul(t *testing.T) {
	a := NewU256(17)
	b := NewU256(13)
	if a.Mul(b).Ne(NewU256(17 * 13)) {
		t.Fail()
	}
	if MaxU256().Mul(NewU256(2)).Ne(MaxU256().Sub(NewU256(1))) {
		t.Fail()
	}
}

func TestU256Div(t *testing.T) {
	a := NewU256(24)
	b := NewU256(8)
	if a.Div(b).Ne(NewU256(24 / 8)) {
		t.Fail()
	}
	if !a.Div(NewU256()).IsZero() {
		t.Error("division by zero should yield zero")
	}
}

func TestU256Mod(t *testing.T) {
	a := NewU256(25)
	b := NewU256(8)
	if a.Mod(b).Ne(NewU256(25 % 8)) {
		t.Fail()
	}
	if !a.Mod(NewU256()).IsZero() {
		t.Error("modulo by zero should yield zero")
	}
}

func TestU256String(t *testing.T) {
	tests := map[string]struct {
		value U256
		dec   string
		hex   string
	}{
		"zero":  {NewU256(), "0", "0x0"},
		"small": {NewU256(255), "255", "0xff"},
		"large": {NewU256(1, 0), "18446744073709551616", "0x10000000000000000"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.dec, test.value.String(); want != got {
				t.Errorf("unexpected decimal, wanted %s, got %s", want, got)
			}
			if want, got := test.hex, test.value.Hex(); want != got {
				t.Errorf("unexpected hex, wanted %s, got %s", want, got)
			}
		})
	}
}

func TestParseU256(t *testing.T) {
	rnd := rand.New(1)
	for i := 0; i < 100; i++ {
		want := RandU256(rnd)
		got, err := ParseU256(want.String())
		if err != nil {
			t.Fatalf("failed to parse %v: %v", want, err)
		}
		if want.Ne(got) {
			t.Errorf("want %v, got %v", want, got)
		}
	}
	for _, input := range []string{"abc", "-1", "0x10", "115792089237316195423570985008687907853269984665640564039457584007913129639936"} {
		if _, err := ParseU256(input); err == nil {
			t.Errorf("expected %q to be rejected", input)
		}
	}
}

func TestU256FromBig(t *testing.T) {
	rnd := rand.New(2)
	for i := 0; i < 100; i++ {
		want := RandU256(rnd)
		if got := U256FromBig(want.ToBig()); want.Ne(*got) {
			t.Errorf("want %v, got %v", want, got)
		}
	}
	if !U256FromBig(big.NewInt(-1)).IsZero() {
		t.Error("negative numbers should convert to zero")
	}
}

func TestU256FromBig_PanicsOnOverflow(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fail()
		}
	}()
	U256FromBig(new(big.Int).Lsh(big.NewInt(1), 256))
}

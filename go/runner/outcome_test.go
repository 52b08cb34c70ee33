// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zkpoex/zkpoex/go/tosca"
)

func TestOutcome_Successful(t *testing.T) {
	tests := map[string]struct {
		outcome Outcome
		want    bool
	}{
		"nothing":       {Outcome{}, false},
		"exploit":       {Outcome{ExploitFound: true}, true},
		"new condition": {Outcome{NewConditionFound: true}, true},
	}
	for name, test := range tests {
		if want, got := test.want, test.outcome.Successful(); want != got {
			t.Errorf("%s: wanted %t, got %t", name, want, got)
		}
	}
}

func TestOutcome_OutputListsHexValuesWithoutPrefix(t *testing.T) {
	outcome := Outcome{
		ExploitFound: true,
		SpecHash:     tosca.Hash{0xab},
		ContextHash:  tosca.Hash{31: 0xcd},
	}

	output := outcome.Output()
	if want, got := 3, len(output); want != got {
		t.Fatalf("unexpected number of entries, wanted %d, got %d", want, got)
	}
	if want, got := "true", output[0]; want != got {
		t.Errorf("unexpected flag, wanted %s, got %s", want, got)
	}
	if want, got := "ab"+strings.Repeat("0", 62), output[1]; want != got {
		t.Errorf("unexpected spec hash, wanted %s, got %s", want, got)
	}
	if want, got := strings.Repeat("0", 62)+"cd", output[2]; want != got {
		t.Errorf("unexpected context hash, wanted %s, got %s", want, got)
	}

	prover := tosca.Address{19: 0x01}
	outcome.Prover = &prover
	output = outcome.Output()
	if want, got := 4, len(output); want != got {
		t.Fatalf("unexpected number of entries, wanted %d, got %d", want, got)
	}
	if want, got := strings.Repeat("0", 38)+"01", output[3]; want != got {
		t.Errorf("unexpected prover, wanted %s, got %s", want, got)
	}
}

func TestOutcome_PublicInputIsAbiEncoded(t *testing.T) {
	prover := tosca.Address{0: 0x11, 19: 0x22}
	outcome := Outcome{
		ExploitFound: true,
		SpecHash:     tosca.Hash{1},
		ContextHash:  tosca.Hash{2},
		Prover:       &prover,
	}

	encoded, err := outcome.PublicInput()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if want, got := 4*32, len(encoded); want != got {
		t.Fatalf("unexpected length, wanted %d, got %d", want, got)
	}

	want := make([]byte, 4*32)
	want[31] = 1
	want[32] = 1
	want[64] = 2
	copy(want[96+12:], prover[:])
	if !bytes.Equal(want, encoded) {
		t.Errorf("unexpected encoding\nwanted %x\ngot    %x", want, encoded)
	}
}

func TestOutcome_PublicInputEncodesMissingProverAsZero(t *testing.T) {
	encoded, err := Outcome{}.PublicInput()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if want, got := make([]byte, 4*32), encoded; !bytes.Equal(want, got) {
		t.Errorf("unexpected encoding %x", got)
	}
}

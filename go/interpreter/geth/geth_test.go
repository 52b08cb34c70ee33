// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package geth

import (
	"errors"
	"math/big"
	"testing"

	geth "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
)

var (
	testSender    = tosca.Address{0x01}
	testRecipient = tosca.Address{0x02}
)

func code(ops ...geth.OpCode) tosca.Code {
	res := make(tosca.Code, 0, len(ops))
	for _, op := range ops {
		res = append(res, byte(op))
	}
	return res
}

func newTestParameters(context tosca.TransactionContext, code tosca.Code) tosca.Parameters {
	return tosca.Parameters{
		BlockParameters: tosca.BlockParameters{
			BlockNumber: 10,
			Revision:    tosca.R13_Cancun,
		},
		Context:   context,
		Kind:      tosca.Call,
		Gas:       100_000,
		Recipient: testRecipient,
		Sender:    testSender,
		Code:      code,
	}
}

// newTestContext creates a context with warm sender and recipient accounts,
// as set up by a processor before running a transaction from Berlin on.
func newTestContext(code tosca.Code) *st.Context {
	context := st.NewContext(st.WorldState{
		testSender:    {Balance: tosca.NewValue(1000)},
		testRecipient: {Code: code},
	}, nil)
	context.AccessAccount(testSender)
	context.AccessAccount(testRecipient)
	return context
}

func TestGeth_IsRegistered(t *testing.T) {
	if _, err := tosca.NewInterpreter("geth"); err != nil {
		t.Fatalf("geth interpreter not available: %v", err)
	}
}

func TestGeth_StoresValuesInContext(t *testing.T) {
	code := code(geth.PUSH1, 42, geth.PUSH1, 1, geth.SSTORE, geth.STOP)
	context := newTestContext(code)

	result, err := (&gethVm{}).Run(newTestParameters(context, code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution failed")
	}
	if result.GasLeft <= 0 || result.GasLeft >= 100_000 {
		t.Errorf("unexpected gas left: %d", result.GasLeft)
	}
	want := tosca.Word{31: 42}
	got := context.State()[testRecipient].Storage[tosca.Key{31: 1}]
	if want != got {
		t.Errorf("unexpected storage value, wanted %v, got %v", want, got)
	}
}

func TestGeth_ReturnsOutput(t *testing.T) {
	code := code(
		geth.PUSH1, 42, geth.PUSH1, 0, geth.MSTORE,
		geth.PUSH1, 32, geth.PUSH1, 0, geth.RETURN,
	)
	result, err := (&gethVm{}).Run(newTestParameters(newTestContext(code), code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("execution failed")
	}
	if want, got := 32, len(result.Output); want != got {
		t.Fatalf("unexpected output length, wanted %d, got %d", want, got)
	}
	if want, got := byte(42), result.Output[31]; want != got {
		t.Errorf("unexpected output, wanted %d, got %d", want, got)
	}
}

func TestGeth_FailuresAreReportedInResult(t *testing.T) {
	tests := map[string]struct {
		code   tosca.Code
		static bool
	}{
		"revert": {
			code: code(geth.PUSH1, 0, geth.DUP1, geth.REVERT),
		},
		"invalid opcode": {
			code: code(geth.INVALID),
		},
		"stack underflow": {
			code: code(geth.ADD),
		},
		"invalid jump": {
			code: code(geth.PUSH1, 3, geth.JUMP, geth.STOP),
		},
		"write in static call": {
			code:   code(geth.PUSH1, 1, geth.PUSH1, 1, geth.SSTORE),
			static: true,
		},
		"out of gas": {
			code: code(geth.JUMPDEST, geth.PUSH1, 0, geth.JUMP),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			context := newTestContext(test.code)
			parameters := newTestParameters(context, test.code)
			parameters.Static = test.static
			result, err := (&gethVm{}).Run(parameters)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Success {
				t.Errorf("execution should have failed")
			}
			if result.GasRefund != 0 {
				t.Errorf("failed executions should not refund gas, got %d", result.GasRefund)
			}
		})
	}
}

func TestGeth_RejectsUnsupportedRevision(t *testing.T) {
	parameters := newTestParameters(newTestContext(nil), nil)
	parameters.Revision = tosca.R99_UnknownNextRevision
	_, err := (&gethVm{}).Run(parameters)
	var unsupported *tosca.ErrUnsupportedRevision
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported revision error, got %v", err)
	}
}

func TestGeth_RequiresContext(t *testing.T) {
	parameters := newTestParameters(nil, code(geth.STOP))
	if _, err := (&gethVm{}).Run(parameters); err == nil {
		t.Errorf("expected an error for a missing context")
	}
}

func TestGeth_BlockHashIsTakenFromContext(t *testing.T) {
	code := code(
		geth.PUSH1, 7, geth.BLOCKHASH, geth.PUSH1, 0, geth.MSTORE,
		geth.PUSH1, 32, geth.PUSH1, 0, geth.RETURN,
	)
	want := tosca.Hash{0xab, 31: 0xcd}
	context := st.NewContext(st.WorldState{testRecipient: {Code: code}}, func(number int64) tosca.Hash {
		if number == 7 {
			return want
		}
		return tosca.Hash{}
	})

	result, err := (&gethVm{}).Run(newTestParameters(context, code))
	if err != nil || !result.Success {
		t.Fatalf("execution failed: %v", err)
	}
	if got := tosca.Hash(result.Output); want != got {
		t.Errorf("unexpected block hash, wanted %v, got %v", want, got)
	}
}

func TestGeth_SelfDestructBeforeCancunRemovesAccount(t *testing.T) {
	beneficiary := tosca.Address{0x03}
	code := append(code(geth.PUSH20), beneficiary[:]...)
	code = append(code, byte(geth.SELFDESTRUCT))

	tests := map[tosca.Revision]bool{
		tosca.R12_Shanghai: true,
		tosca.R13_Cancun:   false,
	}

	for revision, destructed := range tests {
		t.Run(revision.String(), func(t *testing.T) {
			context := st.NewContext(st.WorldState{
				testRecipient: {Balance: tosca.NewValue(50), Code: code},
			}, nil)
			parameters := newTestParameters(context, code)
			parameters.Revision = revision
			result, err := (&gethVm{}).Run(parameters)
			if err != nil || !result.Success {
				t.Fatalf("execution failed: %v", err)
			}
			if want, got := destructed, context.HasSelfDestructed(testRecipient); want != got {
				t.Errorf("unexpected self-destruct state, wanted %t, got %t", want, got)
			}
			if want, got := tosca.NewValue(50), context.GetBalance(beneficiary); want != got {
				t.Errorf("unexpected beneficiary balance, wanted %v, got %v", want, got)
			}
			context.Finalize()
			if want, got := !destructed, context.AccountExists(testRecipient); want != got {
				t.Errorf("unexpected account existence, wanted %t, got %t", want, got)
			}
		})
	}
}

func TestMakeChainConfig_EnablesForksUpToRevision(t *testing.T) {
	chainId := big.NewInt(7)
	for _, revision := range []tosca.Revision{
		tosca.R07_Istanbul,
		tosca.R09_Berlin,
		tosca.R10_London,
		tosca.R11_Paris,
		tosca.R12_Shanghai,
		tosca.R13_Cancun,
	} {
		t.Run(revision.String(), func(t *testing.T) {
			config := MakeChainConfig(*params.AllEthashProtocolChanges, chainId, revision)
			if config.ChainID.Cmp(chainId) != 0 {
				t.Errorf("unexpected chain id %v", config.ChainID)
			}
			if !config.IsIstanbul(big.NewInt(0)) {
				t.Errorf("Istanbul should always be enabled")
			}
			if want, got := revision >= tosca.R09_Berlin, config.IsBerlin(big.NewInt(0)); want != got {
				t.Errorf("unexpected Berlin activation, wanted %t, got %t", want, got)
			}
			if want, got := revision >= tosca.R10_London, config.IsLondon(big.NewInt(0)); want != got {
				t.Errorf("unexpected London activation, wanted %t, got %t", want, got)
			}
			if want, got := revision >= tosca.R12_Shanghai, config.IsShanghai(big.NewInt(0), 0); want != got {
				t.Errorf("unexpected Shanghai activation, wanted %t, got %t", want, got)
			}
			if want, got := revision >= tosca.R13_Cancun, config.IsCancun(big.NewInt(0), 0); want != got {
				t.Errorf("unexpected Cancun activation, wanted %t, got %t", want, got)
			}
		})
	}
}

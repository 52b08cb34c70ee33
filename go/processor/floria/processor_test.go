// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package floria

import (
	"testing"

	"github.com/zkpoex/zkpoex/go/st"
	"github.com/zkpoex/zkpoex/go/tosca"
	"go.uber.org/mock/gomock"
)

func TestProcessorRegistry_InitProcessor(t *testing.T) {
	processorFactories := tosca.GetAllRegisteredProcessorFactories()
	if len(processorFactories) == 0 {
		t.Errorf("No processor factories found")
	}

	processor := tosca.GetProcessorFactory("floria")
	if processor == nil {
		t.Errorf("Floria processor factory not found")
	}
}

func TestProcessor_HandleNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)

	context.EXPECT().GetNonce(tosca.Address{1}).Return(uint64(9))
	context.EXPECT().SetNonce(tosca.Address{1}, uint64(10))
	context.EXPECT().GetNonce(tosca.Address{1}).Return(uint64(10))

	transaction := tosca.Transaction{
		Sender: tosca.Address{1},
		Nonce:  9,
	}

	err := handleNonce(transaction, context)
	if err != nil {
		t.Errorf("handleNonce returned an error: %v", err)
	}
	if context.GetNonce(transaction.Sender) != 10 {
		t.Errorf("Nonce was not incremented")
	}
}

func TestProcessor_NonceMissmatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)

	context.EXPECT().GetNonce(tosca.Address{1}).Return(uint64(5))

	transaction := tosca.Transaction{
		Sender: tosca.Address{1},
		Nonce:  10,
	}
	err := handleNonce(transaction, context)
	if err == nil {
		t.Errorf("handleNonce did not spot nonce miss match")
	}
}

func TestProcessor_NonceOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)

	context.EXPECT().GetNonce(tosca.Address{1}).Return(^uint64(0))

	transaction := tosca.Transaction{
		Sender: tosca.Address{1},
		Nonce:  ^uint64(0),
	}
	if err := handleNonce(transaction, context); err == nil {
		t.Errorf("handleNonce did not detect the nonce overflow")
	}
}

func TestProcessor_BuyGas(t *testing.T) {
	balance := uint64(1000)
	gasLimit := uint64(100)
	gasPrice := uint64(2)

	transaction := tosca.Transaction{
		Sender:   tosca.Address{1},
		GasLimit: tosca.Gas(gasLimit),
		GasPrice: tosca.NewValue(gasPrice),
	}

	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)
	context.EXPECT().GetBalance(transaction.Sender).Return(tosca.NewValue(balance))
	context.EXPECT().SetBalance(transaction.Sender, tosca.NewValue(balance-gasLimit*gasPrice))

	err := buyGas(transaction, context)
	if err != nil {
		t.Errorf("buyGas returned an error: %v", err)
	}
}

func TestProcessor_BuyGasInsufficientBalance(t *testing.T) {
	balance := uint64(100)
	gasLimit := uint64(100)
	gasPrice := uint64(2)

	transaction := tosca.Transaction{
		Sender:   tosca.Address{1},
		GasLimit: tosca.Gas(gasLimit),
		GasPrice: tosca.NewValue(gasPrice),
	}

	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)
	context.EXPECT().GetBalance(transaction.Sender).Return(tosca.NewValue(balance))

	err := buyGas(transaction, context)
	if err == nil {
		t.Errorf("buyGas did not fail with insufficient balance")
	}
}

func TestProcessor_SetupGasBilling(t *testing.T) {
	tests := map[string]struct {
		transaction tosca.Transaction
		want        tosca.Gas
	}{
		"plain call": {
			want: TxGas,
		},
		"input": {
			transaction: tosca.Transaction{Input: []byte{0, 1, 0, 2}},
			want:        TxGas + 2*TxDataZeroGasEIP2028 + 2*TxDataNonZeroGasEIP2028,
		},
		"access list": {
			transaction: tosca.Transaction{AccessList: []tosca.AccessTuple{
				{Address: tosca.Address{1}, Keys: []tosca.Key{{1}, {2}}},
				{Address: tosca.Address{2}},
			}},
			want: TxGas + 2*TxAccessListAddressGas + 2*TxAccessListStorageKeyGas,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, setupGasBilling(test.transaction); want != got {
				t.Errorf("unexpected intrinsic gas, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestProcessor_RefundIsCapped(t *testing.T) {
	tests := map[string]struct {
		revision tosca.Revision
		refund   tosca.Gas
		want     tosca.Gas
	}{
		"small refund": {
			revision: tosca.R10_London,
			refund:   1000,
			want:     41_000,
		},
		"capped after London": {
			revision: tosca.R10_London,
			refund:   50_000,
			want:     40_000 + 60_000/MaxRefundQuotientEIP3529,
		},
		"capped before London": {
			revision: tosca.R09_Berlin,
			refund:   50_000,
			want:     40_000 + 60_000/MaxRefundQuotient,
		},
	}

	transaction := tosca.Transaction{GasLimit: 100_000}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			result := tosca.Result{GasLeft: 40_000, GasRefund: test.refund}
			if want, got := test.want, refundGas(test.revision, transaction, result); want != got {
				t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestProcessor_AccessListIsWarmedUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	context := tosca.NewMockTransactionContext(ctrl)

	blockParams := tosca.BlockParameters{
		Revision: tosca.R12_Shanghai,
		Coinbase: tosca.Address{0xc},
	}
	transaction := tosca.Transaction{
		Sender:    tosca.Address{1},
		Recipient: tosca.Address{2},
		AccessList: []tosca.AccessTuple{
			{Address: tosca.Address{3}, Keys: []tosca.Key{{4}}},
		},
	}

	context.EXPECT().AccessAccount(transaction.Sender)
	context.EXPECT().AccessAccount(transaction.Recipient)
	for _, address := range tosca.PrecompiledAddresses(blockParams.Revision) {
		context.EXPECT().AccessAccount(address)
	}
	context.EXPECT().AccessAccount(blockParams.Coinbase)
	context.EXPECT().AccessAccount(tosca.Address{3})
	context.EXPECT().AccessStorage(tosca.Address{3}, tosca.Key{4})

	setUpAccessList(blockParams, transaction, context)
}

var (
	sender    = tosca.Address{1}
	recipient = tosca.Address{2}
	coinbase  = tosca.Address{0xc}
)

func newProcessorTestSetup(t *testing.T) (*tosca.MockInterpreter, *st.Context, tosca.BlockParameters, tosca.Transaction) {
	ctrl := gomock.NewController(t)
	interpreter := tosca.NewMockInterpreter(ctrl)
	context := st.NewContext(st.WorldState{
		sender:    {Balance: tosca.NewValue(1_000_000)},
		recipient: {Code: tosca.Code{0x00}},
	}, nil)
	blockParams := tosca.BlockParameters{
		Revision: tosca.R10_London,
		BaseFee:  tosca.NewValue(1),
		Coinbase: coinbase,
	}
	transaction := tosca.Transaction{
		Sender:    sender,
		Recipient: recipient,
		Value:     tosca.NewValue(5),
		GasLimit:  100_000,
		GasPrice:  tosca.NewValue(3),
	}
	return interpreter, context, blockParams, transaction
}

func TestProcessor_SuccessfulTransactionIsBilled(t *testing.T) {
	interpreter, context, blockParams, transaction := newProcessorTestSetup(t)

	interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(func(params tosca.Parameters) (tosca.Result, error) {
		if want, got := tosca.Gas(100_000-TxGas), params.Gas; want != got {
			t.Errorf("unexpected gas for the call, wanted %d, got %d", want, got)
		}
		if want, got := sender, params.Origin; want != got {
			t.Errorf("unexpected origin, wanted %v, got %v", want, got)
		}
		if params.Context == nil {
			t.Errorf("missing context")
		}
		return tosca.Result{Success: true, GasLeft: 50_000, GasRefund: 20_000, Output: []byte("out")}, nil
	})

	receipt, err := newProcessor(interpreter).Run(blockParams, transaction, context)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !receipt.Success {
		t.Fatalf("transaction should have succeeded")
	}
	if want, got := "out", string(receipt.Output); want != got {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
	// 50_000 used, 10_000 refunded
	if want, got := tosca.Gas(40_000), receipt.GasUsed; want != got {
		t.Errorf("unexpected gas used, wanted %d, got %d", want, got)
	}
	if want, got := tosca.NewValue(1_000_000-3*40_000-5), context.GetBalance(sender); want != got {
		t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
	}
	if want, got := tosca.NewValue(5), context.GetBalance(recipient); want != got {
		t.Errorf("unexpected recipient balance, wanted %v, got %v", want, got)
	}
	if want, got := tosca.NewValue(2*40_000), context.GetBalance(coinbase); want != got {
		t.Errorf("unexpected coinbase balance, wanted %v, got %v", want, got)
	}
	if want, got := uint64(1), context.GetNonce(sender); want != got {
		t.Errorf("unexpected sender nonce, wanted %d, got %d", want, got)
	}
}

func TestProcessor_FailedTransactionRollsBackValueTransfer(t *testing.T) {
	interpreter, context, blockParams, transaction := newProcessorTestSetup(t)

	interpreter.EXPECT().Run(gomock.Any()).DoAndReturn(func(params tosca.Parameters) (tosca.Result, error) {
		params.Context.SetStorage(recipient, tosca.Key{1}, tosca.Word{2})
		return tosca.Result{Success: false}, nil
	})

	receipt, err := newProcessor(interpreter).Run(blockParams, transaction, context)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Success {
		t.Fatalf("transaction should have failed")
	}
	if want, got := transaction.GasLimit, receipt.GasUsed; want != got {
		t.Errorf("unexpected gas used, wanted %d, got %d", want, got)
	}
	if want, got := tosca.NewValue(1_000_000-3*100_000), context.GetBalance(sender); want != got {
		t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
	}
	if want, got := (tosca.Value{}), context.GetBalance(recipient); want != got {
		t.Errorf("unexpected recipient balance, wanted %v, got %v", want, got)
	}
	if want, got := (tosca.Word{}), context.GetStorage(recipient, tosca.Key{1}); want != got {
		t.Errorf("storage update was not rolled back")
	}
	if want, got := uint64(1), context.GetNonce(sender); want != got {
		t.Errorf("unexpected sender nonce, wanted %d, got %d", want, got)
	}
}

func TestProcessor_InvalidTransactionsAreRejected(t *testing.T) {
	tests := map[string]func(*tosca.BlockParameters, *tosca.Transaction){
		"nonce mismatch": func(_ *tosca.BlockParameters, transaction *tosca.Transaction) {
			transaction.Nonce = 7
		},
		"gas price below base fee": func(blockParams *tosca.BlockParameters, _ *tosca.Transaction) {
			blockParams.BaseFee = tosca.NewValue(4)
		},
		"insufficient balance for gas": func(_ *tosca.BlockParameters, transaction *tosca.Transaction) {
			transaction.GasPrice = tosca.NewValue(1_000)
		},
		"gas limit below intrinsic gas": func(_ *tosca.BlockParameters, transaction *tosca.Transaction) {
			transaction.GasLimit = TxGas - 1
		},
	}

	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			interpreter, context, blockParams, transaction := newProcessorTestSetup(t)
			modify(&blockParams, &transaction)

			receipt, err := newProcessor(interpreter).Run(blockParams, transaction, context)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if receipt.Success {
				t.Errorf("transaction should have been rejected")
			}
			if want, got := transaction.GasLimit, receipt.GasUsed; want != got {
				t.Errorf("unexpected gas used, wanted %d, got %d", want, got)
			}
		})
	}
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package floria implements a transaction processor running a single message
// call from an externally owned account to a contract. Nested calls and
// contract creations are left to the interpreter.
package floria

import (
	"fmt"

	"github.com/zkpoex/zkpoex/go/tosca"
)

const (
	TxGas                     = 21_000
	TxDataNonZeroGasEIP2028   = 16
	TxDataZeroGasEIP2028      = 4
	TxAccessListAddressGas    = 2400
	TxAccessListStorageKeyGas = 1900

	// refunds are capped to a fraction of the used gas (EIP-3529)
	MaxRefundQuotient        = 2
	MaxRefundQuotientEIP3529 = 5
)

func init() {
	tosca.RegisterProcessorFactory("floria", newProcessor)
}

func newProcessor(interpreter tosca.Interpreter) tosca.Processor {
	return &processor{
		interpreter: interpreter,
	}
}

type processor struct {
	interpreter tosca.Interpreter
}

func (p *processor) Run(
	blockParams tosca.BlockParameters,
	transaction tosca.Transaction,
	context tosca.TransactionContext,
) (tosca.Receipt, error) {
	errorReceipt := tosca.Receipt{
		Success: false,
		GasUsed: transaction.GasLimit,
	}
	gas := transaction.GasLimit

	if err := checkGasPrice(blockParams, transaction); err != nil {
		return errorReceipt, nil
	}

	if err := buyGas(transaction, context); err != nil {
		return errorReceipt, nil
	}

	intrinsicGas := setupGasBilling(transaction)
	if gas < intrinsicGas {
		return errorReceipt, nil
	}
	gas -= intrinsicGas

	if err := handleNonce(transaction, context); err != nil {
		return errorReceipt, nil
	}

	if blockParams.Revision >= tosca.R09_Berlin {
		setUpAccessList(blockParams, transaction, context)
	}

	result, err := call(p.interpreter, blockParams, transaction, context, gas)
	if err != nil {
		return errorReceipt, err
	}

	gasLeft := refundGas(blockParams.Revision, transaction, result)
	gasUsed := transaction.GasLimit - gasLeft
	context.SetBalance(transaction.Sender, tosca.Add(
		context.GetBalance(transaction.Sender),
		transaction.GasPrice.Scale(uint64(gasLeft)),
	))
	payCoinbase(blockParams, transaction, context, gasUsed)

	var logs []tosca.Log
	if result.Success {
		logs = context.GetLogs()
	}

	return tosca.Receipt{
		Success: result.Success,
		GasUsed: gasUsed,
		Output:  result.Output,
		Logs:    logs,
	}, nil
}

// refundGas returns the gas left after the execution including the capped
// refund earned by the execution.
func refundGas(revision tosca.Revision, transaction tosca.Transaction, result tosca.Result) tosca.Gas {
	quotient := tosca.Gas(MaxRefundQuotient)
	if revision >= tosca.R10_London {
		quotient = MaxRefundQuotientEIP3529
	}
	gasUsed := transaction.GasLimit - result.GasLeft
	refund := min(result.GasRefund, gasUsed/quotient)
	return result.GasLeft + refund
}

func payCoinbase(blockParams tosca.BlockParameters, transaction tosca.Transaction, context tosca.TransactionContext, gasUsed tosca.Gas) {
	price := transaction.GasPrice
	if blockParams.Revision >= tosca.R10_London {
		price = tosca.Sub(price, blockParams.BaseFee)
	}
	fee := price.Scale(uint64(gasUsed))
	if fee.IsZero() {
		return
	}
	context.SetBalance(blockParams.Coinbase, tosca.Add(context.GetBalance(blockParams.Coinbase), fee))
}

func checkGasPrice(blockParams tosca.BlockParameters, transaction tosca.Transaction) error {
	if blockParams.Revision >= tosca.R10_London && transaction.GasPrice.Cmp(blockParams.BaseFee) < 0 {
		return fmt.Errorf("gas price below base fee: %v < %v", transaction.GasPrice, blockParams.BaseFee)
	}
	return nil
}

func setupGasBilling(transaction tosca.Transaction) tosca.Gas {
	gas := tosca.Gas(TxGas)

	if len(transaction.Input) > 0 {
		nonZeroBytes := tosca.Gas(0)
		for _, inputByte := range transaction.Input {
			if inputByte != 0 {
				nonZeroBytes++
			}
		}
		zeroBytes := tosca.Gas(len(transaction.Input)) - nonZeroBytes
		gas += zeroBytes * TxDataZeroGasEIP2028
		gas += nonZeroBytes * TxDataNonZeroGasEIP2028
	}

	if transaction.AccessList != nil {
		gas += tosca.Gas(len(transaction.AccessList)) * TxAccessListAddressGas

		// charge for each storage key
		for _, accessTuple := range transaction.AccessList {
			gas += tosca.Gas(len(accessTuple.Keys)) * TxAccessListStorageKeyGas
		}
	}

	return gas
}

func setUpAccessList(blockParams tosca.BlockParameters, transaction tosca.Transaction, context tosca.TransactionContext) {
	context.AccessAccount(transaction.Sender)
	context.AccessAccount(transaction.Recipient)

	for _, address := range tosca.PrecompiledAddresses(blockParams.Revision) {
		context.AccessAccount(address)
	}

	if blockParams.Revision >= tosca.R12_Shanghai {
		context.AccessAccount(blockParams.Coinbase)
	}

	for _, accessTuple := range transaction.AccessList {
		context.AccessAccount(accessTuple.Address)
		for _, key := range accessTuple.Keys {
			context.AccessStorage(accessTuple.Address, key)
		}
	}
}

func handleNonce(transaction tosca.Transaction, context tosca.TransactionContext) error {
	stateNonce := context.GetNonce(transaction.Sender)
	messageNonce := transaction.Nonce
	if messageNonce != stateNonce {
		return fmt.Errorf("nonce mismatch: %v != %v", messageNonce, stateNonce)
	}
	if stateNonce+1 < stateNonce {
		return fmt.Errorf("nonce overflow")
	}
	context.SetNonce(transaction.Sender, stateNonce+1)
	return nil
}

func buyGas(transaction tosca.Transaction, context tosca.TransactionContext) error {
	gas := transaction.GasPrice.Scale(uint64(transaction.GasLimit))

	// Buy gas
	senderBalance := context.GetBalance(transaction.Sender)
	if senderBalance.Cmp(gas) < 0 {
		return fmt.Errorf("insufficient balance: %v < %v", senderBalance, gas)
	}

	senderBalance = tosca.Sub(senderBalance, gas)
	context.SetBalance(transaction.Sender, senderBalance)

	return nil
}

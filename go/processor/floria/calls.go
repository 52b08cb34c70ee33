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
	"fmt"

	"github.com/zkpoex/zkpoex/go/tosca"
)

// call runs the outermost call frame of the transaction. All effects of a
// failed frame, including the value transfer, are rolled back.
func call(
	interpreter tosca.Interpreter,
	blockParams tosca.BlockParameters,
	transaction tosca.Transaction,
	context tosca.TransactionContext,
	gas tosca.Gas,
) (tosca.Result, error) {
	transactionParameters := tosca.TransactionParameters{
		Origin:     transaction.Sender,
		GasPrice:   transaction.GasPrice,
		BlobHashes: []tosca.Hash{},
	}

	codeHash := context.GetCodeHash(transaction.Recipient)
	code := context.GetCode(transaction.Recipient)

	params := tosca.Parameters{
		BlockParameters:       blockParams,
		TransactionParameters: transactionParameters,
		Context:               context,
		Kind:                  tosca.Call,
		Static:                false,
		Depth:                 0,
		Gas:                   gas,
		Recipient:             transaction.Recipient,
		Sender:                transaction.Sender,
		Input:                 transaction.Input,
		Value:                 transaction.Value,
		CodeHash:              &codeHash,
		Code:                  code,
	}

	snapshot := context.CreateSnapshot()
	if err := transferValue(context, transaction.Value, transaction.Sender, transaction.Recipient); err != nil {
		context.RestoreSnapshot(snapshot)
		return tosca.Result{}, nil
	}

	result, err := interpreter.Run(params)
	if err != nil || !result.Success {
		context.RestoreSnapshot(snapshot)
		result.GasRefund = 0
	}

	return result, err
}

func transferValue(
	context tosca.TransactionContext,
	value tosca.Value,
	sender tosca.Address,
	recipient tosca.Address,
) error {
	if value.IsZero() {
		return nil
	}

	senderBalance := context.GetBalance(sender)
	if senderBalance.Cmp(value) < 0 {
		return fmt.Errorf("insufficient balance: %v < %v", senderBalance, value)
	}
	if sender == recipient {
		return nil
	}

	receiverBalance := context.GetBalance(recipient)
	updatedBalance := tosca.Add(receiverBalance, value)
	if updatedBalance.Cmp(receiverBalance) < 0 {
		return fmt.Errorf("balance overflow at %v", recipient)
	}

	context.SetBalance(sender, tosca.Sub(senderBalance, value))
	context.SetBalance(recipient, updatedBalance)
	return nil
}

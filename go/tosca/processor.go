// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

//go:generate mockgen -source processor.go -destination processor_mock.go -package tosca

// Processor runs complete transactions: it charges for gas, maintains the
// sender's nonce, transfers the value and starts the outermost call frame on
// an interpreter.
type Processor interface {
	// Run executes the transaction in the given context. All effects of the
	// transaction are recorded in the context. An error is only returned if
	// the processor could not handle the transaction at all; failures of the
	// executed code are reported through the receipt.
	Run(BlockParameters, Transaction, TransactionContext) (Receipt, error)
}

// Transaction is a message call issued by an externally owned account.
type Transaction struct {
	Sender     Address       // the sender of the transaction, paying for its execution
	Recipient  Address       // the contract being called
	Nonce      uint64        // the nonce of the sender account, used to prevent replay attacks
	Input      Data          // the calldata
	Value      Value         // the amount of network currency to transfer to the recipient
	GasLimit   Gas           // the maximum amount of gas that can be used by the transaction
	GasPrice   Value         // the effective price of a unit of gas for this transaction
	AccessList []AccessTuple // the list of accounts and storage slots expected to be accessed
}

type AccessTuple struct {
	Address Address
	Keys    []Key
}

// Receipt summarizes the outcome of a transaction.
type Receipt struct {
	Success bool  // false if the execution ended in a revert or failure
	Output  Data  // the output produced by the transaction
	GasUsed Gas   // gas charged to the sender
	Logs    []Log // logs produced by the transaction
}
